package usecase

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/layout"
	"bus-booking/internal/ledger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tripLedger resolves a schedule to its seat template and its in-memory
// ledger, seeding the ledger with durable bookings on first use.
type tripLedger struct {
	schedules repository.ScheduleRepository
	bookings  repository.BookingRepository
	layouts   layout.Provider
	registry  *ledger.Registry
	log       *zap.Logger
}

type openTrip struct {
	schedule *entity.Schedule
	layout   *layout.Layout
	ledger   *ledger.Trip
}

func (t *tripLedger) open(ctx context.Context, tripID string) (*openTrip, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTripNotFound, tripID)
	}

	schedule, err := t.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("%w: %s", ErrTripNotFound, tripID)
	}

	lay, err := t.layouts.Layout(schedule.LayoutCode)
	if err != nil {
		t.log.Error("Trip references unknown seat layout",
			zap.String("trip_id", tripID),
			zap.String("layout_code", schedule.LayoutCode),
		)
		return nil, fmt.Errorf("layout of trip %s: %w", tripID, err)
	}

	trip := t.registry.Trip(schedule.ID.String())
	if !trip.Seeded() {
		booked, err := t.bookings.FindBookedSeatsBySchedule(ctx, schedule.ID)
		if err != nil {
			return nil, fmt.Errorf("load booked seats of trip %s: %w", tripID, err)
		}
		trip.Seed(booked)
		t.log.Debug("Trip ledger seeded",
			zap.String("trip_id", tripID),
			zap.Int("booked_seats", len(booked)),
		)
	}

	return &openTrip{schedule: schedule, layout: lay, ledger: trip}, nil
}

// checkSeats rejects seats missing from the bus layout.
func (o *openTrip) checkSeats(seatIDs []string) error {
	for _, id := range seatIDs {
		if !o.layout.Has(id) {
			return fmt.Errorf("%w: %s", ErrUnknownSeat, id)
		}
	}
	return nil
}
