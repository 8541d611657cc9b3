package response

import (
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/layout"
	"bus-booking/internal/ledger"
)

type TripResponse struct {
	ID          string                `json:"id"`
	Origin      string                `json:"origin"`
	Destination string                `json:"destination"`
	DepartureAt time.Time             `json:"departure_at"`
	ArrivalAt   time.Time             `json:"arrival_at"`
	Price       float64               `json:"price"`
	Status      entity.ScheduleStatus `json:"status"`
	Operator    string                `json:"operator"`
	BusClass    entity.BusClass       `json:"bus_class"`
	LayoutCode  string                `json:"layout_code"`
}

type SeatResponse struct {
	ID     string            `json:"id"`
	Row    int               `json:"row"`
	Column int               `json:"column"`
	Window bool              `json:"window"`
	Status ledger.SeatStatus `json:"status"`
}

type SeatMapResponse struct {
	TripID     string         `json:"trip_id"`
	LayoutCode string         `json:"layout_code"`
	Available  int            `json:"available"`
	Seats      []SeatResponse `json:"seats"`
}

func TripToResponse(schedule *entity.Schedule) TripResponse {
	return TripResponse{
		ID:          schedule.ID.String(),
		Origin:      schedule.Origin,
		Destination: schedule.Destination,
		DepartureAt: schedule.DepartureAt,
		ArrivalAt:   schedule.ArrivalAt,
		Price:       schedule.Price,
		Status:      schedule.Status,
		Operator:    schedule.Operator,
		BusClass:    schedule.BusClass,
		LayoutCode:  schedule.LayoutCode,
	}
}

// SeatMapToResponse joins the layout template with a ledger snapshot, keeping snapshot order.
func SeatMapToResponse(tripID string, lay *layout.Layout, states []ledger.SeatState) SeatMapResponse {
	resp := SeatMapResponse{
		TripID:     tripID,
		LayoutCode: lay.Code,
		Seats:      make([]SeatResponse, 0, len(states)),
	}
	for _, state := range states {
		seat, _ := lay.Seat(state.SeatID)
		resp.Seats = append(resp.Seats, SeatResponse{
			ID:     state.SeatID,
			Row:    seat.Row,
			Column: seat.Column,
			Window: seat.Window,
			Status: state.Status,
		})
		if state.Status == ledger.SeatAvailable {
			resp.Available++
		}
	}
	return resp
}
