// Package queue publishes booking events to the message broker.
package queue

// BookingConfirmedEvent is published after a paid booking has been stored.
// It carries enough for downstream consumers to notify or report without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   string   `json:"booking_id"`
	UserID      string   `json:"user_id"`
	ScheduleID  string   `json:"schedule_id"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	DepartureAt string   `json:"departure_at"`
	SeatIDs     []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`
	PaymentID   string   `json:"payment_id"`
	ConfirmedAt string   `json:"confirmed_at"`
}
