package usecase

import (
	"errors"
	"fmt"

	"bus-booking/pkg/utils"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidID           = errors.New("invalid id")
	ErrTripNotFound        = errors.New("trip not found")
	ErrTripClosed          = errors.New("trip is not open for booking")
	ErrUnknownSeat         = errors.New("seat does not exist on this bus")
	ErrAmountMismatch      = errors.New("payment amount does not match booking total")
	ErrPassengersMissing   = errors.New("passenger details are required for every seat")
	ErrPaymentMethod       = errors.New("payment method not found or inactive")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrBookingNotPersisted = errors.New("booking confirmed but not saved")
)

// ValidationError carries field -> message pairs from request validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
