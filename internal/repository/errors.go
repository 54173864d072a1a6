// Package repository defines the data access layer and the sentinel error
// values shared across repositories. The sentinels let handlers translate
// failure modes into specific HTTP responses: authorization failures are
// fatal to the request, conflicts invite the caller to re-fetch state and
// retry once with fresh data, and date-range conflicts carry an actionable
// message for the guest (pick different dates).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a conditional status write finds the row in
// a different state than expected (concurrent transition, terminal state).
// Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrDatesUnavailable is returned when a booking cannot be created or
// confirmed because the requested date range overlaps a pending or
// confirmed booking on the same listing. This is a normal, expected outcome
// that the guest must be able to act on.
var ErrDatesUnavailable = errors.New("dates no longer available")

// ErrListingNotFound indicates that a listing was not located in the DB or
// is no longer active.
var ErrListingNotFound = errors.New("listing not found")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentRefTaken is returned when an insert collides with the unique
// payment_ref column: the reference was already consumed by a booking the
// caller does not own. Handlers translate this into HTTP 409.
var ErrPaymentRefTaken = errors.New("payment reference already used")

// ErrProcedureMissing indicates the database does not define the atomic
// booking procedure. The caller falls back to the in-service guarded
// insert, accepting the weaker guarantee of that path.
var ErrProcedureMissing = errors.New("booking procedure not available")
