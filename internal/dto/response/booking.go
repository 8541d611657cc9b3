package response

import (
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/ledger"
)

type HoldResponse struct {
	HoldID    string    `json:"hold_id"`
	BookingID string    `json:"booking_id"`
	TripID    string    `json:"trip_id"`
	SeatIDs   []string  `json:"seat_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PassengerResponse struct {
	SeatID string  `json:"seat_id"`
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Gender *string `json:"gender,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

// DraftResponse is a booking that still lives only in the seat ledger.
type DraftResponse struct {
	BookingID   string             `json:"booking_id"`
	TripID      string             `json:"trip_id"`
	Status      ledger.DraftStatus `json:"status"`
	SeatIDs     []string           `json:"seat_ids"`
	Passengers  []ledger.Passenger `json:"passengers"`
	TotalPrice  float64            `json:"total_price"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	ConfirmedAt *time.Time         `json:"confirmed_at,omitempty"`
}

type ReviseResponse struct {
	BookingID string    `json:"booking_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PaymentMethodResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type PaymentResponse struct {
	ID            string                `json:"id"`
	BookingID     string                `json:"booking_id"`
	PaymentMethod PaymentMethodResponse `json:"payment_method"`
	Amount        float64               `json:"amount"`
	Status        entity.PaymentStatus  `json:"status"`
	TransactionID *string               `json:"transaction_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type BookingResponse struct {
	ID          string               `json:"id"`
	OrderID     string               `json:"order_id"`
	UserID      string               `json:"user_id"`
	ScheduleID  string               `json:"schedule_id"`
	Origin      string               `json:"origin,omitempty"`
	Destination string               `json:"destination,omitempty"`
	DepartureAt *time.Time           `json:"departure_at,omitempty"`
	TotalSeats  int                  `json:"total_seats"`
	TotalPrice  float64              `json:"total_price"`
	Status      entity.BookingStatus `json:"status"`
	Passengers  []PassengerResponse  `json:"passengers,omitempty"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
	ConfirmedAt time.Time            `json:"confirmed_at"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Helper converters
func HoldToResponse(tripID string, receipt *ledger.HoldReceipt) HoldResponse {
	return HoldResponse{
		HoldID:    receipt.HoldID,
		BookingID: receipt.BookingID,
		TripID:    tripID,
		SeatIDs:   receipt.SeatIDs,
		ExpiresAt: receipt.ExpiresAt,
	}
}

func DraftToResponse(draft ledger.DraftBooking, price float64) DraftResponse {
	resp := DraftResponse{
		BookingID:   draft.ID,
		TripID:      draft.TripID,
		Status:      draft.Status,
		SeatIDs:     draft.SeatIDs,
		Passengers:  draft.Passengers,
		TotalPrice:  price * float64(len(draft.SeatIDs)),
		ConfirmedAt: draft.ConfirmedAt,
	}
	if resp.Passengers == nil {
		resp.Passengers = []ledger.Passenger{}
	}
	if !draft.ExpiresAt.IsZero() {
		expiresAt := draft.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

func PaymentMethodToResponse(pm *entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:       pm.ID.String(),
		Name:     pm.Name,
		IsActive: pm.IsActive,
	}
}

func PaymentToResponse(payment *entity.Payment, paymentMethod *entity.PaymentMethod) PaymentResponse {
	resp := PaymentResponse{
		ID:            payment.ID.String(),
		BookingID:     payment.BookingID.String(),
		Amount:        payment.Amount,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt,
	}
	if paymentMethod != nil {
		resp.PaymentMethod = PaymentMethodToResponse(paymentMethod)
	} else {
		resp.PaymentMethod = PaymentMethodResponse{ID: payment.PaymentMethodID.String()}
	}
	return resp
}

func PassengerToResponse(p *entity.BookingPassenger) PassengerResponse {
	return PassengerResponse{
		SeatID: p.SeatID,
		Name:   p.Name,
		Age:    p.Age,
		Gender: p.Gender,
		Phone:  p.Phone,
	}
}

// BookingToResponse converts a stored booking. schedule may be nil when the
// trip has been removed.
func BookingToResponse(booking *entity.Booking, schedule *entity.Schedule, passengers []*entity.BookingPassenger) BookingResponse {
	resp := BookingResponse{
		ID:          booking.ID.String(),
		OrderID:     booking.OrderID,
		UserID:      booking.UserID.String(),
		ScheduleID:  booking.ScheduleID.String(),
		TotalSeats:  booking.TotalSeats,
		TotalPrice:  booking.TotalPrice,
		Status:      booking.Status,
		ConfirmedAt: booking.ConfirmedAt,
		CreatedAt:   booking.CreatedAt,
	}
	if schedule != nil {
		departureAt := schedule.DepartureAt
		resp.Origin = schedule.Origin
		resp.Destination = schedule.Destination
		resp.DepartureAt = &departureAt
	}
	for _, p := range passengers {
		resp.Passengers = append(resp.Passengers, PassengerToResponse(p))
	}
	return resp
}
