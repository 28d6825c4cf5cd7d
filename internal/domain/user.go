package domain

import "time"

// DefaultCurrency is used when a user has not chosen a preferred currency.
const DefaultCurrency = "USD"

// User represents a registered user. It owns exactly one conversion ledger.
type User struct {
	ID                int64
	Email             string
	FirstName         string
	LastName          string
	PreferredCurrency string
	PasswordHash      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProfileUpdate carries the user-editable profile fields. Empty values are left unchanged.
type ProfileUpdate struct {
	FirstName         string
	LastName          string
	PreferredCurrency string
}
