package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP responses; nothing here should escape as an unhandled fault.
var (
	ErrTripNotFound           = errors.New("trip not found")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrDetailsNotFound        = errors.New("booking details not found")
	ErrDriverNotFound         = errors.New("driver not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidState           = errors.New("operation not valid for current status")
	ErrConflictDuringUpdate   = errors.New("record changed concurrently, retry")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrInvalidSeatCount       = errors.New("requested seats must be a positive number")
	ErrInvalidPlateFormat     = errors.New("invalid plate number format")
	ErrRatingExists           = errors.New("rating already submitted for this booking")
	ErrProofExtractionTimeout = errors.New("payment proof text extraction timed out")
)

// InsufficientCapacityError carries the true remaining seat count so the
// caller can offer a reduced quantity without a second round-trip.
type InsufficientCapacityError struct {
	TripID    uint
	Requested int
	Remaining int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("trip %d has %d seats left, %d requested", e.TripID, e.Remaining, e.Requested)
}

// ProofMismatchError reports that extracted payment text did not match the
// confirmation pattern. Normalized is surfaced for diagnostics only; no
// state is mutated on mismatch.
type ProofMismatchError struct {
	Normalized string
}

func (e *ProofMismatchError) Error() string {
	return "payment confirmation message not found in extracted text"
}
