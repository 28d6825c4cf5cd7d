package apperrors

import "errors"

// ErrInvalidInput indicates missing or malformed request fields.
var ErrInvalidInput = errors.New("invalid input")

// ErrProviderUnavailable indicates a transport failure or timeout talking to the rate provider.
var ErrProviderUnavailable = errors.New("rate provider unavailable")

// ErrProviderRejected indicates the rate provider answered with a non-success result.
var ErrProviderRejected = errors.New("rate provider rejected request")

// ErrProviderMalformed indicates the rate provider response could not be understood.
var ErrProviderMalformed = errors.New("rate provider response malformed")

// ErrUserNotFound indicates the authenticated identity has no stored user.
var ErrUserNotFound = errors.New("user not found")

// ErrStorageFailure indicates the persistence layer failed on a read or write.
var ErrStorageFailure = errors.New("storage failure")

// ErrUserAlreadyExists is returned when registering an email that is already taken.
var ErrUserAlreadyExists = errors.New("user already exists")

// ErrInvalidCredentials indicates that provided login credentials are incorrect.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrExportDisabled is returned when ledger export has no storage bucket configured.
var ErrExportDisabled = errors.New("ledger export is not configured")
