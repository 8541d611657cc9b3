package usecase

import (
	"bus-booking/internal/data/repository"
	"bus-booking/internal/layout"
	"bus-booking/internal/ledger"
	"bus-booking/pkg/clock"
	"bus-booking/pkg/queue"
	"bus-booking/pkg/retry"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Trip    TripService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	registry *ledger.Registry,
	layouts layout.Provider,
	publisher queue.Publisher,
	clk clock.Clock,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	if clk == nil {
		clk = clock.Real()
	}

	trips := &tripLedger{
		schedules: repo.Schedule,
		bookings:  repo.Booking,
		layouts:   layouts,
		registry:  registry,
		log:       log.With(zap.String("component", "trips")),
	}
	persist := retry.Policy{
		Attempts: config.Persist.RetryAttempts,
		Delay:    config.Persist.RetryDelay,
	}

	return &Service{
		Auth:    NewAuthService(repo, config, clk, log),
		User:    NewUserService(repo.User, log),
		Trip:    NewTripService(repo, trips, log),
		Booking: NewBookingService(repo, trips, publisher, clk, persist, log),
	}
}
