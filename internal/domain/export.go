package domain

import "time"

// LedgerExport describes a ledger snapshot written to object storage.
type LedgerExport struct {
	Key       string
	Location  string
	URL       string
	Size      int64
	Records   int
	CreatedAt time.Time
}
