package ledger

import (
	"context"
	"sync"
	"time"

	"bus-booking/pkg/clock"

	"go.uber.org/zap"
)

// Registry owns one Trip per trip id and the sweeper that expires holds.
// Construct it once at startup and hand it to whoever needs seat state.
type Registry struct {
	opts  Options
	clock clock.Clock
	log   *zap.Logger

	mu    sync.RWMutex
	trips map[string]*Trip

	bookings sync.Map // booking id -> trip id

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewRegistry(opts Options, clk clock.Clock, log *zap.Logger) *Registry {
	if clk == nil {
		clk = clock.Real()
	}
	return &Registry{
		opts:  opts.withDefaults(),
		clock: clk,
		log:   log.With(zap.String("component", "ledger")),
		trips: make(map[string]*Trip),
	}
}

// Trip returns the ledger for tripID, creating an empty one on first access.
func (r *Registry) Trip(tripID string) *Trip {
	r.mu.RLock()
	trip, ok := r.trips[tripID]
	r.mu.RUnlock()
	if ok {
		return trip
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if trip, ok := r.trips[tripID]; ok {
		return trip
	}
	trip = newTrip(tripID, r.opts, r.clock, r.log, &r.bookings)
	r.trips[tripID] = trip
	return trip
}

// Lookup returns an existing trip ledger without creating one.
func (r *Registry) Lookup(tripID string) (*Trip, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trip, ok := r.trips[tripID]
	return trip, ok
}

// TripForBooking finds the trip that owns bookingID.
func (r *Registry) TripForBooking(bookingID string) (*Trip, error) {
	value, ok := r.bookings.Load(bookingID)
	if !ok {
		return nil, ErrNotFound
	}
	trip, ok := r.Lookup(value.(string))
	if !ok {
		return nil, ErrNotFound
	}
	return trip, nil
}

func (r *Registry) ReviseHold(bookingID string, seatIDs []string, ownerID string, passengers []Passenger) (time.Time, error) {
	trip, err := r.TripForBooking(bookingID)
	if err != nil {
		return time.Time{}, err
	}
	return trip.ReviseHold(bookingID, seatIDs, ownerID, passengers)
}

func (r *Registry) Confirm(bookingID, ownerID string, checks ...func(DraftBooking) error) (*DraftBooking, error) {
	trip, err := r.TripForBooking(bookingID)
	if err != nil {
		return nil, err
	}
	return trip.Confirm(bookingID, ownerID, checks...)
}

func (r *Registry) Cancel(bookingID, ownerID string) error {
	trip, err := r.TripForBooking(bookingID)
	if err != nil {
		return err
	}
	return trip.Cancel(bookingID, ownerID)
}

// Forget releases the memory of a confirmed booking; see Trip.Forget.
func (r *Registry) Forget(bookingID string) bool {
	trip, err := r.TripForBooking(bookingID)
	if err != nil {
		return false
	}
	return trip.Forget(bookingID)
}

// Booking looks up a draft or confirmed booking across all trips.
func (r *Registry) Booking(bookingID string) (DraftBooking, bool) {
	trip, err := r.TripForBooking(bookingID)
	if err != nil {
		return DraftBooking{}, false
	}
	return trip.Booking(bookingID)
}

// Sweep releases every expired hold in every trip and returns how many were released.
func (r *Registry) Sweep() int {
	now := r.clock.Now()

	r.mu.RLock()
	trips := make([]*Trip, 0, len(r.trips))
	for _, trip := range r.trips {
		trips = append(trips, trip)
	}
	r.mu.RUnlock()

	released := 0
	for _, trip := range trips {
		released += trip.expire(now)
	}

	if released > 0 {
		r.log.Info("Expired holds released",
			zap.Int("released", released),
			zap.Int("trips_scanned", len(trips)),
		)
	}
	return released
}

// Start launches the sweeper. It runs until ctx is cancelled or Stop is called.
func (r *Registry) Start(ctx context.Context) {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	ticker := r.clock.NewTicker(r.opts.SweepInterval)

	go func(done chan struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}(r.done)

	r.log.Info("Hold sweeper started",
		zap.Duration("interval", r.opts.SweepInterval),
		zap.Duration("hold_ttl", r.opts.HoldTTL),
	)
}

// Stop halts the sweeper and waits for it to exit. Safe to call when not started.
func (r *Registry) Stop() {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	if r.cancel == nil {
		return
	}

	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	r.log.Info("Hold sweeper stopped")
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	trips := make([]*Trip, 0, len(r.trips))
	for _, trip := range r.trips {
		trips = append(trips, trip)
	}
	r.mu.RUnlock()

	stats := Stats{Trips: len(trips)}
	for _, trip := range trips {
		holds, drafts := trip.counts()
		stats.Holds += holds
		stats.Drafts += drafts
	}
	return stats
}
