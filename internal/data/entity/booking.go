package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the durable record of a paid booking. Its ID is the ledger's booking id.
type Booking struct {
	Base
	OrderID     string        `db:"order_id"`
	UserID      uuid.UUID     `db:"user_id"`
	ScheduleID  uuid.UUID     `db:"schedule_id"`
	TotalSeats  int           `db:"total_seats"`
	TotalPrice  float64       `db:"total_price"`
	Status      BookingStatus `db:"status"`
	ConfirmedAt time.Time     `db:"confirmed_at"`
}

// BookingPassenger is one seat of a booking and the traveller in it.
type BookingPassenger struct {
	BaseSimple
	BookingID uuid.UUID `db:"booking_id"`
	SeatID    string    `db:"seat_id"`
	Name      string    `db:"name"`
	Age       int       `db:"age"`
	Gender    *string   `db:"gender"`
	Phone     *string   `db:"phone"`
}
