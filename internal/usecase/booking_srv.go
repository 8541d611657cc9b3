package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/ledger"
	"bus-booking/pkg/clock"
	"bus-booking/pkg/queue"
	"bus-booking/pkg/retry"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Seat holds (draft bookings live in the ledger)
	HoldSeats(ctx context.Context, userID uuid.UUID, tripID string, req *request.HoldRequest) (*response.HoldResponse, error)
	GetDraft(ctx context.Context, userID uuid.UUID, bookingID string) (*response.DraftResponse, error)
	ReviseBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.ReviseBookingRequest) (*response.ReviseResponse, error)
	CancelHold(ctx context.Context, userID uuid.UUID, bookingID string) error

	// Payment
	ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.BookingResponse, error)
	GetPaymentMethods(ctx context.Context) ([]response.PaymentMethodResponse, error)

	// Durable bookings
	GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo      *repository.Repository
	trips     *tripLedger
	registry  *ledger.Registry
	publisher queue.Publisher
	clock     clock.Clock
	persist   retry.Policy
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	trips *tripLedger,
	publisher queue.Publisher,
	clk clock.Clock,
	persist retry.Policy,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		trips:     trips,
		registry:  trips.registry,
		publisher: publisher,
		clock:     clk,
		persist:   persist,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) HoldSeats(ctx context.Context, userID uuid.UUID, tripID string, req *request.HoldRequest) (*response.HoldResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Hold validation failed", zap.Error(err))
		return nil, err
	}

	trip, err := s.trips.open(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.schedule.Bookable(s.clock.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrTripClosed, tripID)
	}
	if err := trip.checkSeats(req.SeatIDs); err != nil {
		return nil, err
	}

	receipt, err := trip.ledger.CreateHold(req.SeatIDs, userID.String())
	if err != nil {
		s.log.Info("Hold rejected",
			zap.String("trip_id", tripID),
			zap.String("user_id", userID.String()),
			zap.Strings("seat_ids", req.SeatIDs),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("Seats held",
		zap.String("trip_id", tripID),
		zap.String("user_id", userID.String()),
		zap.String("booking_id", receipt.BookingID),
		zap.Strings("seat_ids", receipt.SeatIDs),
		zap.Time("expires_at", receipt.ExpiresAt),
	)

	resp := response.HoldToResponse(trip.ledger.ID(), receipt)
	return &resp, nil
}

func (s *bookingService) GetDraft(ctx context.Context, userID uuid.UUID, bookingID string) (*response.DraftResponse, error) {
	draft, err := s.ownedDraft(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if draft.Status == ledger.DraftStatusDraft && !draft.ExpiresAt.After(s.clock.Now()) {
		return nil, ledger.ErrHoldExpired
	}

	price := 0.0
	if trip, err := s.trips.open(ctx, draft.TripID); err == nil {
		price = trip.schedule.Price
	} else {
		s.log.Warn("Draft trip lookup failed", zap.String("trip_id", draft.TripID), zap.Error(err))
	}

	resp := response.DraftToResponse(draft, price)
	return &resp, nil
}

func (s *bookingService) ReviseBooking(ctx context.Context, userID uuid.UUID, bookingID string, req *request.ReviseBookingRequest) (*response.ReviseResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Revise validation failed", zap.Error(err))
		return nil, err
	}

	draft, err := s.ownedDraft(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.open(ctx, draft.TripID)
	if err != nil {
		return nil, err
	}
	if err := trip.checkSeats(req.SeatIDs); err != nil {
		return nil, err
	}

	expiresAt, err := trip.ledger.ReviseHold(bookingID, req.SeatIDs, userID.String(), req.LedgerPassengers())
	if err != nil {
		s.log.Info("Revise rejected",
			zap.String("booking_id", bookingID),
			zap.Strings("seat_ids", req.SeatIDs),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("Booking revised",
		zap.String("booking_id", bookingID),
		zap.Strings("seat_ids", req.SeatIDs),
		zap.Int("passengers", len(req.Passengers)),
		zap.Time("expires_at", expiresAt),
	)

	return &response.ReviseResponse{BookingID: bookingID, ExpiresAt: expiresAt}, nil
}

func (s *bookingService) CancelHold(ctx context.Context, userID uuid.UUID, bookingID string) error {
	if _, err := s.ownedDraft(ctx, userID, bookingID); err != nil {
		return err
	}
	if err := s.registry.Cancel(bookingID, userID.String()); err != nil {
		return err
	}
	s.log.Info("Hold cancelled", zap.String("booking_id", bookingID), zap.String("user_id", userID.String()))
	return nil
}

// ProcessPayment confirms the draft in the ledger and then stores the booking.
// Once confirmed the seats stay booked even if the durable write fails; that
// failure is logged for reconciliation and reported as ErrBookingNotPersisted.
// A stored booking is dropped from the ledger and answered from the database.
func (s *bookingService) ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Payment validation failed", zap.Error(err))
		return nil, err
	}

	draft, err := s.ownedDraft(ctx, userID, req.BookingID)
	if err != nil {
		return nil, err
	}

	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("%w: payment method %s", ErrInvalidID, req.PaymentMethodID)
	}
	method, err := s.repo.PaymentMethod.FindByID(ctx, methodID)
	if err != nil {
		s.log.Error("Failed to load payment method", zap.Error(err), zap.String("payment_method_id", req.PaymentMethodID))
		return nil, fmt.Errorf("load payment method %s: %w", req.PaymentMethodID, err)
	}
	if method == nil || !method.IsActive {
		return nil, ErrPaymentMethod
	}

	trip, err := s.trips.open(ctx, draft.TripID)
	if err != nil {
		return nil, err
	}
	price := trip.schedule.Price

	confirmed, err := s.registry.Confirm(req.BookingID, userID.String(),
		func(d ledger.DraftBooking) error {
			if !d.PassengersComplete() {
				return ErrPassengersMissing
			}
			return nil
		},
		func(d ledger.DraftBooking) error {
			total := price * float64(len(d.SeatIDs))
			if math.Abs(total-req.Amount) > 0.005 {
				return fmt.Errorf("%w: expected %.2f, got %.2f", ErrAmountMismatch, total, req.Amount)
			}
			return nil
		},
	)
	if err != nil {
		s.log.Info("Payment rejected",
			zap.String("booking_id", req.BookingID),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	booking, passengers, payment, err := s.buildRecords(userID, trip.schedule, confirmed, method, req)
	if err != nil {
		return nil, err
	}

	if err := s.store(ctx, booking, passengers, payment); err != nil {
		s.log.Error("Confirmed booking not persisted; seats remain booked",
			zap.Error(err),
			zap.String("booking_id", confirmed.ID),
			zap.String("trip_id", confirmed.TripID),
			zap.Strings("seat_ids", confirmed.SeatIDs),
		)
		return nil, fmt.Errorf("%w: %w", ErrBookingNotPersisted, err)
	}

	s.registry.Forget(confirmed.ID)
	s.publish(ctx, booking, trip.schedule, confirmed.SeatIDs, payment)

	s.log.Info("Payment processed",
		zap.String("booking_id", confirmed.ID),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", userID.String()),
		zap.Float64("amount", payment.Amount),
	)

	resp := response.BookingToResponse(booking, trip.schedule, passengers)
	paymentResp := response.PaymentToResponse(payment, method)
	resp.Payment = &paymentResp
	return &resp, nil
}

func (s *bookingService) GetPaymentMethods(ctx context.Context) ([]response.PaymentMethodResponse, error) {
	methods, err := s.repo.PaymentMethod.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to get payment methods", zap.Error(err))
		return nil, fmt.Errorf("get payment methods: %w", err)
	}

	resp := make([]response.PaymentMethodResponse, len(methods))
	for i, method := range methods {
		resp[i] = response.PaymentMethodToResponse(method)
	}
	return resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if booking.UserID != userID {
		return nil, ledger.ErrForbidden
	}

	resp, err := s.bookingDetail(ctx, booking, nil)
	if err != nil {
		return nil, err
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get payment of booking %s: %w", bookingID, err)
	}
	if payment != nil {
		method, err := s.repo.PaymentMethod.FindByID(ctx, payment.PaymentMethodID)
		if err != nil {
			s.log.Warn("Failed to load payment method", zap.Error(err), zap.String("payment_id", payment.ID.String()))
		}
		paymentResp := response.PaymentToResponse(payment, method)
		resp.Payment = &paymentResp
	}

	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	req.Normalize()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get bookings of user %s: %w", userID.String(), err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("count bookings of user %s: %w", userID.String(), err)
	}

	schedules := make(map[uuid.UUID]*entity.Schedule)
	resp := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		item, err := s.bookingDetail(ctx, booking, schedules)
		if err != nil {
			return nil, err
		}
		resp = append(resp, item)
	}

	return response.NewPaginatedResponse(resp, req.Page, req.PerPage, total), nil
}

// ==================== HELPER METHODS ====================

// ownedDraft returns the caller's draft. Lapsed holds are left for the ledger
// to release on the next mutation.
func (s *bookingService) ownedDraft(ctx context.Context, userID uuid.UUID, bookingID string) (ledger.DraftBooking, error) {
	draft, ok := s.registry.Booking(bookingID)
	if !ok {
		return ledger.DraftBooking{}, s.storedBookingError(ctx, userID, bookingID)
	}
	if draft.OwnerID != userID.String() {
		return ledger.DraftBooking{}, ledger.ErrForbidden
	}
	return draft, nil
}

// storedBookingError explains a booking id the ledger no longer tracks: a
// stored booking is already confirmed, anything else is unknown or expired.
func (s *bookingService) storedBookingError(ctx context.Context, userID uuid.UUID, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return ledger.ErrNotFound
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	switch {
	case booking == nil:
		return ledger.ErrNotFound
	case booking.UserID != userID:
		return ledger.ErrForbidden
	default:
		return ledger.ErrAlreadyConfirmed
	}
}

func (s *bookingService) buildRecords(
	userID uuid.UUID,
	schedule *entity.Schedule,
	confirmed *ledger.DraftBooking,
	method *entity.PaymentMethod,
	req *request.ProcessPaymentRequest,
) (*entity.Booking, []*entity.BookingPassenger, *entity.Payment, error) {
	bookingID, err := uuid.Parse(confirmed.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse booking ID %s: %w", confirmed.ID, err)
	}

	now := s.clock.Now()
	confirmedAt := now
	if confirmed.ConfirmedAt != nil {
		confirmedAt = *confirmed.ConfirmedAt
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        bookingID,
			CreatedAt: confirmed.CreatedAt,
			UpdatedAt: now,
		},
		OrderID:     utils.GenerateOrderID(now),
		UserID:      userID,
		ScheduleID:  schedule.ID,
		TotalSeats:  len(confirmed.SeatIDs),
		TotalPrice:  schedule.Price * float64(len(confirmed.SeatIDs)),
		Status:      entity.BookingStatusConfirmed,
		ConfirmedAt: confirmedAt,
	}

	passengers := make([]*entity.BookingPassenger, len(confirmed.SeatIDs))
	for i, seatID := range confirmed.SeatIDs {
		p := confirmed.Passengers[i]
		passengers[i] = &entity.BookingPassenger{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID: bookingID,
			SeatID:    seatID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    optional(p.Gender),
			Phone:     optional(p.Phone),
		}
	}

	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:       bookingID,
		PaymentMethodID: method.ID,
		Amount:          req.Amount,
		Status:          entity.PaymentStatusCompleted,
		TransactionID:   req.TransactionID,
	}

	return booking, passengers, payment, nil
}

// store writes the confirmed booking with bounded retries. A duplicate key
// means an earlier attempt committed, which counts as success when the
// booking is found.
func (s *bookingService) store(ctx context.Context, booking *entity.Booking, passengers []*entity.BookingPassenger, payment *entity.Payment) error {
	return retry.Do(ctx, s.persist, s.log, func(ctx context.Context) error {
		err := s.repo.Booking.CreateConfirmed(ctx, booking, passengers, payment)
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}

		existing, findErr := s.repo.Booking.FindByID(ctx, booking.ID)
		if findErr == nil && existing != nil {
			return nil
		}
		return retry.Unretryable(err)
	})
}

func (s *bookingService) publish(ctx context.Context, booking *entity.Booking, schedule *entity.Schedule, seatIDs []string, payment *entity.Payment) {
	event := queue.BookingConfirmedEvent{
		BookingID:   booking.ID.String(),
		UserID:      booking.UserID.String(),
		ScheduleID:  schedule.ID.String(),
		Origin:      schedule.Origin,
		Destination: schedule.Destination,
		DepartureAt: schedule.DepartureAt.UTC().Format(time.RFC3339),
		SeatIDs:     seatIDs,
		TotalAmount: payment.Amount,
		PaymentID:   payment.ID.String(),
		ConfirmedAt: booking.ConfirmedAt.UTC().Format(time.RFC3339),
	}

	if err := s.publisher.PublishBookingConfirmed(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("booking_id", event.BookingID),
		)
	}
}

func (s *bookingService) bookingDetail(ctx context.Context, booking *entity.Booking, cache map[uuid.UUID]*entity.Schedule) (response.BookingResponse, error) {
	schedule, cached := cache[booking.ScheduleID]
	if !cached {
		var err error
		schedule, err = s.repo.Schedule.FindByID(ctx, booking.ScheduleID)
		if err != nil {
			return response.BookingResponse{}, fmt.Errorf("get schedule of booking %s: %w", booking.ID.String(), err)
		}
		if cache != nil {
			cache[booking.ScheduleID] = schedule
		}
	}

	passengers, err := s.repo.Booking.FindPassengers(ctx, booking.ID)
	if err != nil {
		return response.BookingResponse{}, fmt.Errorf("get passengers of booking %s: %w", booking.ID.String(), err)
	}

	return response.BookingToResponse(booking, schedule, passengers), nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
