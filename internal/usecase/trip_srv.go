package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"

	"go.uber.org/zap"
)

type TripService interface {
	SearchTrips(ctx context.Context, req *request.TripSearchRequest) (*response.PaginatedResponse[response.TripResponse], error)
	GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error)
	GetSeatMap(ctx context.Context, tripID string) (*response.SeatMapResponse, error)
}

type tripService struct {
	repo  *repository.Repository
	trips *tripLedger
	log   *zap.Logger
}

func NewTripService(repo *repository.Repository, trips *tripLedger, log *zap.Logger) TripService {
	return &tripService{
		repo:  repo,
		trips: trips,
		log:   log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) SearchTrips(ctx context.Context, req *request.TripSearchRequest) (*response.PaginatedResponse[response.TripResponse], error) {
	req.Normalize()

	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.ScheduleFilter{
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
	}
	if req.Date != "" {
		day, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		filter.From = day
		filter.To = day.Add(24 * time.Hour)
	}

	schedules, err := s.repo.Schedule.Search(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to search trips", zap.Error(err))
		return nil, fmt.Errorf("search trips: %w", err)
	}

	total, err := s.repo.Schedule.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count trips", zap.Error(err))
		return nil, fmt.Errorf("count trips: %w", err)
	}

	trips := make([]response.TripResponse, len(schedules))
	for i, schedule := range schedules {
		trips[i] = response.TripToResponse(schedule)
	}

	s.log.Debug("Trips searched",
		zap.String("origin", filter.Origin),
		zap.String("destination", filter.Destination),
		zap.Int("count", len(trips)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(trips, req.Page, req.PerPage, total), nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error) {
	trip, err := s.trips.open(ctx, tripID)
	if err != nil {
		return nil, err
	}
	resp := response.TripToResponse(trip.schedule)
	return &resp, nil
}

// GetSeatMap reports every seat of the bus layout with its live status.
func (s *tripService) GetSeatMap(ctx context.Context, tripID string) (*response.SeatMapResponse, error) {
	trip, err := s.trips.open(ctx, tripID)
	if err != nil {
		return nil, err
	}

	states := trip.ledger.Snapshot(trip.layout.SeatIDs())
	resp := response.SeatMapToResponse(trip.ledger.ID(), trip.layout, states)
	return &resp, nil
}
