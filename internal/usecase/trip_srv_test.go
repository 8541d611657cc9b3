package usecase

import (
	"context"
	"testing"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/ledger"

	"github.com/google/uuid"
)

func TestGetSeatMap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.bookings.booked[env.trip.ID] = []string{"4"}

	env.hold(t, env.alice, "2")

	seatMap, err := env.svc.Trip.GetSeatMap(ctx, env.trip.ID.String())
	if err != nil {
		t.Fatalf("GetSeatMap() error = %v", err)
	}

	want := []struct {
		id     string
		status ledger.SeatStatus
		window bool
	}{
		{"1", ledger.SeatAvailable, true},
		{"2", ledger.SeatHeld, true},
		{"3", ledger.SeatAvailable, true},
		{"4", ledger.SeatBooked, true},
	}
	if len(seatMap.Seats) != len(want) {
		t.Fatalf("GetSeatMap() returned %d seats, want %d", len(seatMap.Seats), len(want))
	}
	for i, w := range want {
		got := seatMap.Seats[i]
		if got.ID != w.id || got.Status != w.status || got.Window != w.window {
			t.Fatalf("seat %d = %+v, want %s %s", i, got, w.id, w.status)
		}
	}
	if seatMap.Available != 2 || seatMap.LayoutCode != "mini" {
		t.Fatalf("GetSeatMap() = %+v, want 2 available on mini", seatMap)
	}

	_, err = env.svc.Trip.GetSeatMap(ctx, uuid.NewString())
	assertErrorIs(t, err, ErrTripNotFound)
}

func TestSearchTrips(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page, err := env.svc.Trip.SearchTrips(ctx, &request.TripSearchRequest{Origin: "Jakarta"})
	if err != nil {
		t.Fatalf("SearchTrips() error = %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].ID != env.trip.ID.String() || page.Pagination.PerPage != 10 {
		t.Fatalf("SearchTrips() = %+v, want the Jakarta trip", page)
	}

	page, err = env.svc.Trip.SearchTrips(ctx, &request.TripSearchRequest{Origin: "Surabaya"})
	if err != nil {
		t.Fatalf("SearchTrips() error = %v", err)
	}
	if len(page.Data) != 0 || page.Pagination.Total != 0 {
		t.Fatalf("SearchTrips(Surabaya) = %+v, want empty", page)
	}

	_, err = env.svc.Trip.SearchTrips(ctx, &request.TripSearchRequest{Date: "01-03-2026"})
	assertErrorIs(t, err, ErrValidation)
}
