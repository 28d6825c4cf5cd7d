package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
	"currency-ledger/internal/repository"
)

const createConversionsTable = `
CREATE TABLE IF NOT EXISTS conversions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	from_currency TEXT NOT NULL,
	to_currency TEXT NOT NULL,
	amount REAL NOT NULL,
	converted_amount REAL NOT NULL,
	rate REAL NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, seq)
);
`

// maxAppendAttempts bounds retries after a (user_id, seq) conflict with a concurrent
// append for the same user.
const maxAppendAttempts = 5

const conversionColumns = `seq, from_currency, to_currency, amount, converted_amount, rate, created_at`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createConversionsTable); err != nil {
		return fmt.Errorf("create conversions table: %w", err)
	}
	return nil
}

// Append stores record at the end of the user's ledger and sets record.Seq.
func (r *LedgerRepository) Append(ctx context.Context, userID int64, record *domain.ConversionRecord) error {
	var err error
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		err = r.appendOnce(ctx, userID, record)
		if err == nil || !isUniqueViolation(err) {
			break
		}
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}
	return fmt.Errorf("%w: append conversion: %v", apperrors.ErrStorageFailure, err)
}

func (r *LedgerRepository) appendOnce(ctx context.Context, userID int64, record *domain.ConversionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := userExists(ctx, tx, userID); err != nil {
		return err
	}

	var seq int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO conversions (user_id, seq, from_currency, to_currency, amount, converted_amount, rate, created_at)
SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?
FROM conversions
WHERE user_id = ?
RETURNING seq`,
		userID,
		record.FromCurrency,
		record.ToCurrency,
		record.Amount,
		record.ConvertedAmount,
		record.Rate,
		record.Timestamp.UTC(),
		userID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	record.Seq = seq
	return nil
}

func (r *LedgerRepository) List(ctx context.Context, userID int64) (domain.Ledger, error) {
	return r.query(ctx, userID, `
SELECT `+conversionColumns+`
FROM conversions
WHERE user_id = ?
ORDER BY seq ASC`,
		userID,
	)
}

func (r *LedgerRepository) Recent(ctx context.Context, userID int64, n int) (domain.Ledger, error) {
	if n <= 0 {
		if err := userExists(ctx, r.db, userID); err != nil {
			return nil, wrapStorage(err)
		}
		return domain.Ledger{}, nil
	}
	return r.query(ctx, userID, `
SELECT `+conversionColumns+`
FROM conversions
WHERE user_id = ?
ORDER BY seq DESC
LIMIT ?`,
		userID,
		n,
	)
}

func (r *LedgerRepository) query(ctx context.Context, userID int64, query string, args ...any) (domain.Ledger, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query conversions: %v", apperrors.ErrStorageFailure, err)
	}
	defer rows.Close()

	ledger := domain.Ledger{}
	for rows.Next() {
		var rec domain.ConversionRecord
		if err := rows.Scan(
			&rec.Seq,
			&rec.FromCurrency,
			&rec.ToCurrency,
			&rec.Amount,
			&rec.ConvertedAmount,
			&rec.Rate,
			&rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("%w: scan conversion: %v", apperrors.ErrStorageFailure, err)
		}
		ledger = append(ledger, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate conversions: %v", apperrors.ErrStorageFailure, err)
	}

	// An empty result is ambiguous: tell an empty ledger apart from a missing user.
	if len(ledger) == 0 {
		if err := userExists(ctx, r.db, userID); err != nil {
			return nil, wrapStorage(err)
		}
	}
	return ledger, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func userExists(ctx context.Context, q queryRower, userID int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", apperrors.ErrUserNotFound, userID)
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	return nil
}

func wrapStorage(err error) error {
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
}
