package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
	"currency-ledger/internal/exchangerate"
)

// ExchangeService converts between currencies using live provider rates. It never
// persists anything and never retries a failed provider call.
type ExchangeService interface {
	Convert(ctx context.Context, from, to string, amount float64) (*domain.ConversionRecord, error)
	Rates(ctx context.Context, base string) (*domain.RateSnapshot, error)
	SupportedCurrencies(ctx context.Context) ([]domain.Currency, error)
}

type exchangeService struct {
	provider exchangerate.Provider
	now      func() time.Time
}

func NewExchangeService(provider exchangerate.Provider) ExchangeService {
	return &exchangeService{
		provider: provider,
		now:      time.Now,
	}
}

// Convert validates its arguments before any network call, then takes the converted
// amount and rate verbatim from the provider. The returned record is not yet stored.
func (s *exchangeService) Convert(ctx context.Context, from, to string, amount float64) (*domain.ConversionRecord, error) {
	from = normalizeCurrency(from)
	to = normalizeCurrency(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: from and to currency codes are required", apperrors.ErrInvalidInput)
	}
	if !finitePositive(amount) {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidInput)
	}

	quote, err := s.provider.Pair(ctx, from, to, amount)
	if err != nil {
		return nil, err
	}

	return &domain.ConversionRecord{
		FromCurrency:    quote.From,
		ToCurrency:      quote.To,
		Amount:          amount,
		ConvertedAmount: quote.ConvertedAmount,
		Rate:            quote.Rate,
		Timestamp:       s.now().UTC(),
	}, nil
}

func (s *exchangeService) Rates(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	base = normalizeCurrency(base)
	if base == "" {
		base = domain.DefaultCurrency
	}
	return s.provider.Latest(ctx, base)
}

func (s *exchangeService) SupportedCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.provider.SupportedCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].Code < currencies[j].Code
	})
	return currencies, nil
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
