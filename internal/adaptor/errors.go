package adaptor

import (
	"errors"
	"net/http"

	"bus-booking/internal/ledger"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps usecase and ledger errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr  *usecase.ValidationError
		unavailableErr *ledger.SeatUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &unavailableErr):
		log.Info(operation+" failed - seat unavailable", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), map[string]string{
			"seat_id": unavailableErr.SeatID,
			"status":  string(unavailableErr.Status),
		})

	case errors.Is(err, ledger.ErrHoldExpired):
		log.Info(operation+" failed - hold expired", zap.Error(err))
		utils.ResponseNotFound(w, "Booking not found or hold expired")

	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, usecase.ErrTripNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, ledger.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, ledger.ErrAlreadyConfirmed),
		errors.Is(err, usecase.ErrEmailRegistered),
		errors.Is(err, usecase.ErrUsernameTaken):
		log.Info(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, ledger.ErrInvalidSeats),
		errors.Is(err, ledger.ErrInvalidPassengers),
		errors.Is(err, usecase.ErrInvalidID),
		errors.Is(err, usecase.ErrUnknownSeat),
		errors.Is(err, usecase.ErrTripClosed),
		errors.Is(err, usecase.ErrAmountMismatch),
		errors.Is(err, usecase.ErrPassengersMissing),
		errors.Is(err, usecase.ErrPaymentMethod):
		log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials")
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrAccountDeactivated):
		log.Warn(operation+" failed - account deactivated")
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrBookingNotPersisted):
		log.Error(operation+" failed - booking not persisted", zap.Error(err))
		utils.ResponseInternalError(w, "Payment accepted but the booking could not be saved; contact support")

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}
