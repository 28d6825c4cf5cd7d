package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
	"currency-ledger/internal/repository"
	"currency-ledger/internal/storage"
)

// ExportOptions conveys where ledger exports are written.
type ExportOptions struct {
	Bucket    string
	KeyPrefix string
	URLExpiry time.Duration
}

// ExportService writes ledger snapshots to object storage.
type ExportService interface {
	Export(ctx context.Context, userID int64) (*domain.LedgerExport, error)
	ListExports(ctx context.Context, userID int64) ([]domain.LedgerExport, error)
}

type exportService struct {
	ledgers repository.LedgerRepository
	storage storage.Service
	opts    ExportOptions
	now     func() time.Time
}

// NewExportService returns an ExportService. A nil store or empty bucket disables exports.
func NewExportService(ledgers repository.LedgerRepository, store storage.Service, opts ExportOptions) ExportService {
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = 15 * time.Minute
	}
	opts.KeyPrefix = strings.Trim(opts.KeyPrefix, "/")
	return &exportService{
		ledgers: ledgers,
		storage: store,
		opts:    opts,
		now:     time.Now,
	}
}

type exportDocument struct {
	UserID      int64            `json:"userId"`
	ExportedAt  time.Time        `json:"exportedAt"`
	Conversions []exportedRecord `json:"conversions"`
}

type exportedRecord struct {
	Seq             int64     `json:"seq"`
	FromCurrency    string    `json:"fromCurrency"`
	ToCurrency      string    `json:"toCurrency"`
	Amount          float64   `json:"amount"`
	ConvertedAmount float64   `json:"convertedAmount"`
	Rate            float64   `json:"rate"`
	Date            time.Time `json:"date"`
}

func (s *exportService) Export(ctx context.Context, userID int64) (*domain.LedgerExport, error) {
	if !s.enabled() {
		return nil, apperrors.ErrExportDisabled
	}

	ledger, err := s.ledgers.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := exportDocument{
		UserID:      userID,
		ExportedAt:  now,
		Conversions: make([]exportedRecord, len(ledger)),
	}
	for i, rec := range ledger {
		doc.Conversions[i] = exportedRecord{
			Seq:             rec.Seq,
			FromCurrency:    rec.FromCurrency,
			ToCurrency:      rec.ToCurrency,
			Amount:          rec.Amount,
			ConvertedAmount: rec.ConvertedAmount,
			Rate:            rec.Rate,
			Date:            rec.Timestamp,
		}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ledger export: %w", err)
	}

	key := path.Join(s.userPrefix(userID), fmt.Sprintf("%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()))
	location, err := s.storage.Upload(ctx, s.opts.Bucket, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}

	url, err := s.storage.GetObjectURL(ctx, s.opts.Bucket, key, s.opts.URLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}

	return &domain.LedgerExport{
		Key:       key,
		Location:  location,
		URL:       url,
		Size:      int64(len(body)),
		Records:   len(ledger),
		CreatedAt: now,
	}, nil
}

// ListExports returns the user's exports, newest first.
func (s *exportService) ListExports(ctx context.Context, userID int64) ([]domain.LedgerExport, error) {
	if !s.enabled() {
		return nil, apperrors.ErrExportDisabled
	}

	objects, err := s.storage.ListObjects(ctx, s.opts.Bucket, s.userPrefix(userID)+"/")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}

	exports := make([]domain.LedgerExport, 0, len(objects))
	for _, obj := range objects {
		export := domain.LedgerExport{
			Key:      obj.Key,
			Location: fmt.Sprintf("s3://%s/%s", s.opts.Bucket, obj.Key),
			Size:     obj.Size,
		}
		if obj.LastModified != nil {
			export.CreatedAt = obj.LastModified.UTC()
		}
		exports = append(exports, export)
	}
	sort.SliceStable(exports, func(i, j int) bool {
		return exports[i].CreatedAt.After(exports[j].CreatedAt)
	})
	return exports, nil
}

func (s *exportService) enabled() bool {
	return s.storage != nil && s.opts.Bucket != ""
}

func (s *exportService) userPrefix(userID int64) string {
	return path.Join(s.opts.KeyPrefix, fmt.Sprintf("user-%d", userID))
}
