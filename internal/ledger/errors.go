package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("booking belongs to another user")
	ErrAlreadyConfirmed  = errors.New("booking already confirmed")
	ErrSeatUnavailable   = errors.New("seat unavailable")
	ErrInvalidSeats      = errors.New("invalid seat selection")
	ErrInvalidPassengers = errors.New("passenger count does not match seat count")

	// ErrHoldExpired matches ErrNotFound: an expired draft no longer exists.
	ErrHoldExpired = fmt.Errorf("%w: hold expired", ErrNotFound)
)

// SeatUnavailableError names the first requested seat that could not be claimed.
type SeatUnavailableError struct {
	SeatID string
	Status SeatStatus
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is %s", e.SeatID, e.Status)
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}
