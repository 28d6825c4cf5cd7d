package service

import (
	"context"
	"fmt"
	"time"

	"currency-ledger/internal/analytics"
	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
	"currency-ledger/internal/exchangerate"
	"currency-ledger/internal/repository"
)

// SaveConversionInput is a conversion the caller already obtained and wants recorded.
type SaveConversionInput struct {
	FromCurrency    string
	ToCurrency      string
	Amount          float64
	ConvertedAmount float64
	Rate            float64
}

// LedgerService records conversions in a user's ledger and derives views from it.
type LedgerService interface {
	SaveConversion(ctx context.Context, userID int64, in SaveConversionInput) (*domain.ConversionRecord, error)
	ConvertAndSave(ctx context.Context, userID int64, from, to string, amount float64) (*domain.ConversionRecord, error)
	// History returns the ledger newest timestamp first.
	History(ctx context.Context, userID int64) (domain.Ledger, error)
	// Recent returns the last n inserted conversions, newest insertion first.
	Recent(ctx context.Context, userID int64, n int) (domain.Ledger, error)
	Stats(ctx context.Context, userID int64) (*domain.StatsView, error)
}

type ledgerService struct {
	ledgers     repository.LedgerRepository
	exchange    ExchangeService
	recentLimit int
	now         func() time.Time
}

func NewLedgerService(ledgers repository.LedgerRepository, exchange ExchangeService, recentLimit int) LedgerService {
	if recentLimit <= 0 {
		recentLimit = analytics.DefaultRecentLimit
	}
	return &ledgerService{
		ledgers:     ledgers,
		exchange:    exchange,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

func (s *ledgerService) SaveConversion(ctx context.Context, userID int64, in SaveConversionInput) (*domain.ConversionRecord, error) {
	record := &domain.ConversionRecord{
		FromCurrency:    normalizeCurrency(in.FromCurrency),
		ToCurrency:      normalizeCurrency(in.ToCurrency),
		Amount:          in.Amount,
		ConvertedAmount: in.ConvertedAmount,
		Rate:            in.Rate,
		Timestamp:       s.now().UTC(),
	}
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	if err := s.ledgers.Append(ctx, userID, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ConvertAndSave appends only after the provider returned a usable result.
func (s *ledgerService) ConvertAndSave(ctx context.Context, userID int64, from, to string, amount float64) (*domain.ConversionRecord, error) {
	record, err := s.exchange.Convert(ctx, from, to, amount)
	if err != nil {
		return nil, err
	}
	if err := s.ledgers.Append(ctx, userID, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ledgerService) History(ctx context.Context, userID int64) (domain.Ledger, error) {
	ledger, err := s.ledgers.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.History(ledger), nil
}

func (s *ledgerService) Recent(ctx context.Context, userID int64, n int) (domain.Ledger, error) {
	if n <= 0 {
		n = s.recentLimit
	}
	return s.ledgers.Recent(ctx, userID, n)
}

func (s *ledgerService) Stats(ctx context.Context, userID int64) (*domain.StatsView, error) {
	ledger, err := s.ledgers.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := analytics.ComputeStats(ledger, s.recentLimit)
	return &stats, nil
}

func validateRecord(r *domain.ConversionRecord) error {
	switch {
	case r.FromCurrency == "" || r.ToCurrency == "":
		return fmt.Errorf("%w: fromCurrency and toCurrency are required", apperrors.ErrInvalidInput)
	case !finitePositive(r.Amount):
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidInput)
	case !finiteNonNegative(r.ConvertedAmount):
		return fmt.Errorf("%w: convertedAmount must not be negative", apperrors.ErrInvalidInput)
	case !finitePositive(r.Rate):
		return fmt.Errorf("%w: rate must be greater than zero", apperrors.ErrInvalidInput)
	case !exchangerate.Consistent(r.Amount, r.Rate, r.ConvertedAmount):
		return fmt.Errorf("%w: convertedAmount %v does not match amount %v at rate %v",
			apperrors.ErrInvalidInput, r.ConvertedAmount, r.Amount, r.Rate)
	}
	return nil
}
