package ledger

import (
	"time"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatBooked    SeatStatus = "booked"
)

type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusConfirmed DraftStatus = "confirmed"
)

// Passenger is the traveller occupying one seat of a draft booking.
type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

// Hold is a time-bounded claim on a set of seats backing exactly one draft booking.
type Hold struct {
	ID        string
	TripID    string
	SeatIDs   []string
	BookingID string
	OwnerID   string
	ExpiresAt time.Time
}

// DraftBooking is the pre-payment booking record kept in the ledger.
// Passengers is either empty or has one entry per seat, in seat order.
type DraftBooking struct {
	ID          string
	TripID      string
	SeatIDs     []string
	Passengers  []Passenger
	Status      DraftStatus
	HoldID      string
	OwnerID     string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
}

// PassengersComplete reports whether every seat has passenger details.
func (d DraftBooking) PassengersComplete() bool {
	return len(d.Passengers) > 0 && len(d.Passengers) == len(d.SeatIDs)
}

// HoldReceipt is returned by CreateHold.
type HoldReceipt struct {
	HoldID    string
	BookingID string
	SeatIDs   []string
	ExpiresAt time.Time
}

// SeatState is one entry of a trip snapshot.
type SeatState struct {
	SeatID string
	Status SeatStatus
}

// Options tunes hold lifetime, selection size and sweep cadence.
type Options struct {
	HoldTTL       time.Duration
	MaxSeats      int
	SweepInterval time.Duration
}

const (
	DefaultHoldTTL       = 5 * time.Minute
	DefaultMaxSeats      = 5
	DefaultSweepInterval = 5 * time.Second
)

// DefaultOptions returns the five minute / five seat / five second defaults.
func DefaultOptions() Options {
	return Options{
		HoldTTL:       DefaultHoldTTL,
		MaxSeats:      DefaultMaxSeats,
		SweepInterval: DefaultSweepInterval,
	}
}

func (o Options) withDefaults() Options {
	if o.HoldTTL <= 0 {
		o.HoldTTL = DefaultHoldTTL
	}
	if o.MaxSeats <= 0 {
		o.MaxSeats = DefaultMaxSeats
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	return o
}

// Stats summarises registry contents for health reporting.
type Stats struct {
	Trips  int `json:"trips"`
	Holds  int `json:"holds"`
	Drafts int `json:"drafts"`
}

func cloneDraft(d *DraftBooking) DraftBooking {
	out := *d
	out.SeatIDs = append([]string(nil), d.SeatIDs...)
	out.Passengers = append([]Passenger(nil), d.Passengers...)
	if d.ConfirmedAt != nil {
		confirmedAt := *d.ConfirmedAt
		out.ConfirmedAt = &confirmedAt
	}
	return out
}
