package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Schedule is one departure of a bus on a route; its id is the trip id of the seat ledger.
type Schedule struct {
	Base
	BusID       uuid.UUID      `db:"bus_id"`
	Origin      string         `db:"origin"`
	Destination string         `db:"destination"`
	DepartureAt time.Time      `db:"departure_at"`
	ArrivalAt   time.Time      `db:"arrival_at"`
	Price       float64        `db:"price"`
	Status      ScheduleStatus `db:"status"`

	// Joined from buses.
	Operator   string   `db:"operator"`
	BusClass   BusClass `db:"class"`
	LayoutCode string   `db:"layout_code"`
}

// Bookable reports whether seats can still be held at now.
func (s *Schedule) Bookable(now time.Time) bool {
	return s.Status == ScheduleStatusScheduled && now.Before(s.DepartureAt)
}
