package domain

import "time"

// ConversionRecord is one ledger entry. Records are immutable once appended; the store
// fills in Seq as part of appending.
type ConversionRecord struct {
	// Seq is the 1-based insertion position inside the owning ledger. Zero until stored.
	Seq             int64
	FromCurrency    string
	ToCurrency      string
	Amount          float64
	ConvertedAmount float64
	Rate            float64
	Timestamp       time.Time
}

// Ledger is a user's conversions in insertion order.
type Ledger []ConversionRecord
