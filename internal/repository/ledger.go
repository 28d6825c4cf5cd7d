package repository

import (
	"context"

	"currency-ledger/internal/domain"
)

// LedgerRepository stores each user's append-only conversion ledger.
//
// Append is the only mutator and is atomic per call. Appends for the same user are
// serialized so that insertion order is preserved; appends for different users are
// independent. Unknown users fail with apperrors.ErrUserNotFound, any other
// persistence error with apperrors.ErrStorageFailure.
type LedgerRepository interface {
	Init(ctx context.Context) error
	// Append stores record at the end of the user's ledger. On success record.Seq is set to
	// its insertion position; on failure record is left unchanged.
	Append(ctx context.Context, userID int64, record *domain.ConversionRecord) error
	// List returns the ledger in insertion order.
	List(ctx context.Context, userID int64) (domain.Ledger, error)
	// Recent returns the last n inserted records, newest insertion first.
	Recent(ctx context.Context, userID int64, n int) (domain.Ledger, error)
}
