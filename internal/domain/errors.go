package domain

import "errors"

// Validation and lookup failures surfaced by the services. Callers branch on
// these with errors.Is; anything else is a persistence failure and passes
// through wrapped.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateSlot        = errors.New("slot number already exists")
	ErrSlotNotFound         = errors.New("slot not found")
	ErrSlotNotAvailable     = errors.New("slot is not available")
	ErrSlotNotRemovable     = errors.New("slot has an active booking and cannot be removed")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
)
