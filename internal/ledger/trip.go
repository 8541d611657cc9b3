package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"bus-booking/pkg/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Trip is the seat ledger of one departure. Every mutation runs under mu, so
// check-then-set sequences never interleave with other mutators or the sweeper.
type Trip struct {
	id    string
	opts  Options
	clock clock.Clock
	log   *zap.Logger
	index *sync.Map // booking id -> trip id, shared with the registry

	mu     sync.Mutex
	seats  map[string]SeatStatus // absent means available
	holder map[string]string     // held seat id -> hold id
	holds  map[string]*Hold
	drafts map[string]*DraftBooking
	seeded bool
}

func newTrip(id string, opts Options, clk clock.Clock, log *zap.Logger, index *sync.Map) *Trip {
	return &Trip{
		id:     id,
		opts:   opts,
		clock:  clk,
		log:    log.With(zap.String("trip_id", id)),
		index:  index,
		seats:  make(map[string]SeatStatus),
		holder: make(map[string]string),
		holds:  make(map[string]*Hold),
		drafts: make(map[string]*DraftBooking),
	}
}

func (t *Trip) ID() string { return t.id }

// SeatStatus is a pure lookup; unknown seats are available.
func (t *Trip) SeatStatus(seatID string) SeatStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked(seatID)
}

// Snapshot reports the status of each seat in template order.
func (t *Trip) Snapshot(seatIDs []string) []SeatState {
	t.mu.Lock()
	defer t.mu.Unlock()

	states := make([]SeatState, len(seatIDs))
	for i, id := range seatIDs {
		states[i] = SeatState{SeatID: id, Status: t.statusLocked(id)}
	}
	return states
}

// CreateHold claims every seat in seatIDs or none of them.
func (t *Trip) CreateHold(seatIDs []string, ownerID string) (*HoldReceipt, error) {
	seats, err := t.normalize(seatIDs)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	lapsed := make(map[string]*Hold)
	for _, id := range seats {
		if err := t.claimableLocked(id, "", now, lapsed); err != nil {
			return nil, err
		}
	}
	for _, other := range lapsed {
		t.releaseLocked(other)
	}

	hold := &Hold{
		ID:        uuid.NewString(),
		TripID:    t.id,
		SeatIDs:   seats,
		BookingID: uuid.NewString(),
		OwnerID:   ownerID,
		ExpiresAt: now.Add(t.opts.HoldTTL),
	}
	draft := &DraftBooking{
		ID:        hold.BookingID,
		TripID:    t.id,
		SeatIDs:   append([]string(nil), seats...),
		Status:    DraftStatusDraft,
		HoldID:    hold.ID,
		OwnerID:   ownerID,
		ExpiresAt: hold.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, id := range seats {
		t.seats[id] = SeatHeld
		t.holder[id] = hold.ID
	}
	t.holds[hold.ID] = hold
	t.drafts[draft.ID] = draft
	t.index.Store(draft.ID, t.id)

	t.log.Debug("Hold created",
		zap.String("hold_id", hold.ID),
		zap.String("booking_id", draft.ID),
		zap.String("owner_id", ownerID),
		zap.Strings("seat_ids", seats),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	return &HoldReceipt{
		HoldID:    hold.ID,
		BookingID: draft.ID,
		SeatIDs:   append([]string(nil), seats...),
		ExpiresAt: hold.ExpiresAt,
	}, nil
}

// ReviseHold replaces the seats of a draft booking and restarts its hold.
// The new selection is verified before anything is released, so a failed
// revise leaves the original hold untouched. A nil passengers slice keeps the
// current passenger list when the seat count is unchanged and clears it otherwise.
func (t *Trip) ReviseHold(bookingID string, seatIDs []string, ownerID string, passengers []Passenger) (time.Time, error) {
	seats, err := t.normalize(seatIDs)
	if err != nil {
		return time.Time{}, err
	}
	if passengers != nil && len(passengers) != len(seats) {
		return time.Time{}, ErrInvalidPassengers
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	draft, hold, err := t.liveDraftLocked(bookingID, ownerID, now)
	if err != nil {
		return time.Time{}, err
	}

	lapsed := make(map[string]*Hold)
	for _, id := range seats {
		if err := t.claimableLocked(id, hold.ID, now, lapsed); err != nil {
			return time.Time{}, err
		}
	}
	for _, other := range lapsed {
		t.releaseLocked(other)
	}

	keep := make(map[string]struct{}, len(seats))
	for _, id := range seats {
		keep[id] = struct{}{}
	}
	for _, id := range hold.SeatIDs {
		if _, ok := keep[id]; !ok {
			delete(t.seats, id)
			delete(t.holder, id)
		}
	}
	for _, id := range seats {
		t.seats[id] = SeatHeld
		t.holder[id] = hold.ID
	}

	hold.SeatIDs = seats
	hold.ExpiresAt = now.Add(t.opts.HoldTTL)

	switch {
	case passengers != nil:
		draft.Passengers = append([]Passenger(nil), passengers...)
	case len(draft.Passengers) != len(seats):
		draft.Passengers = nil
	}
	draft.SeatIDs = append([]string(nil), seats...)
	draft.ExpiresAt = hold.ExpiresAt
	draft.UpdatedAt = now

	t.log.Debug("Hold revised",
		zap.String("hold_id", hold.ID),
		zap.String("booking_id", bookingID),
		zap.Strings("seat_ids", seats),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	return hold.ExpiresAt, nil
}

// Confirm turns the held seats of a draft into booked seats and removes the hold.
// Each check sees the live draft under the trip lock; the first error aborts
// the confirmation and leaves the hold untouched.
func (t *Trip) Confirm(bookingID, ownerID string, checks ...func(DraftBooking) error) (*DraftBooking, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	draft, hold, err := t.liveDraftLocked(bookingID, ownerID, now)
	if err != nil {
		return nil, err
	}
	for _, check := range checks {
		if err := check(cloneDraft(draft)); err != nil {
			return nil, err
		}
	}

	for _, id := range hold.SeatIDs {
		t.seats[id] = SeatBooked
		delete(t.holder, id)
	}
	delete(t.holds, hold.ID)

	draft.Status = DraftStatusConfirmed
	draft.ConfirmedAt = &now
	draft.UpdatedAt = now
	draft.ExpiresAt = time.Time{}

	t.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("owner_id", ownerID),
		zap.Strings("seat_ids", draft.SeatIDs),
	)

	confirmed := cloneDraft(draft)
	return &confirmed, nil
}

// Cancel releases the hold behind an unconfirmed draft and deletes the draft.
func (t *Trip) Cancel(bookingID, ownerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, hold, err := t.liveDraftLocked(bookingID, ownerID, t.clock.Now())
	if err != nil {
		return err
	}
	t.releaseLocked(hold)

	t.log.Debug("Hold cancelled", zap.String("booking_id", bookingID), zap.String("hold_id", hold.ID))
	return nil
}

// ReleaseHold returns the hold's seats to available and drops its draft.
// Releasing an unknown hold is a no-op and reports false.
func (t *Trip) ReleaseHold(holdID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	hold, ok := t.holds[holdID]
	if !ok {
		return false
	}
	t.releaseLocked(hold)
	return true
}

// Booking returns a copy of a draft or confirmed booking held by this trip.
func (t *Trip) Booking(bookingID string) (DraftBooking, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	draft, ok := t.drafts[bookingID]
	if !ok {
		return DraftBooking{}, false
	}
	return cloneDraft(draft), true
}

// Forget drops a confirmed draft once it is stored durably. Its seats stay
// booked. Drafts that are not confirmed are left alone and reported false.
func (t *Trip) Forget(bookingID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	draft, ok := t.drafts[bookingID]
	if !ok || draft.Status != DraftStatusConfirmed {
		return false
	}
	t.dropDraftLocked(draft)
	return true
}

// Seed marks seats already booked in durable storage. Only available seats
// change; the call is idempotent.
func (t *Trip) Seed(bookedSeatIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range bookedSeatIDs {
		switch t.statusLocked(id) {
		case SeatAvailable:
			t.seats[id] = SeatBooked
		case SeatHeld:
			t.log.Warn("Durably booked seat is held in memory", zap.String("seat_id", id))
		}
	}
	t.seeded = true
}

func (t *Trip) Seeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seeded
}

// HoldCount returns the number of live holds.
func (t *Trip) HoldCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.holds)
}

// expire releases every hold whose deadline is at or before now.
func (t *Trip) expire(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	released := 0
	for _, hold := range t.holds {
		if !hold.ExpiresAt.After(now) {
			t.releaseLocked(hold)
			released++
		}
	}
	return released
}

func (t *Trip) counts() (holds, drafts int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.holds), len(t.drafts)
}

func (t *Trip) statusLocked(seatID string) SeatStatus {
	if status, ok := t.seats[seatID]; ok {
		return status
	}
	return SeatAvailable
}

// claimableLocked reports whether seatID may join the hold ownHoldID (empty
// for a new hold). A seat held by an expired hold is claimable; that hold is
// added to lapsed and the caller releases it only once every seat passed.
func (t *Trip) claimableLocked(seatID, ownHoldID string, now time.Time, lapsed map[string]*Hold) error {
	switch t.statusLocked(seatID) {
	case SeatAvailable:
		return nil
	case SeatBooked:
		return &SeatUnavailableError{SeatID: seatID, Status: SeatBooked}
	}

	holdID := t.holder[seatID]
	if ownHoldID != "" && holdID == ownHoldID {
		return nil
	}
	if other, ok := t.holds[holdID]; ok && !other.ExpiresAt.After(now) {
		lapsed[other.ID] = other
		return nil
	}
	return &SeatUnavailableError{SeatID: seatID, Status: SeatHeld}
}

// liveDraftLocked resolves an unconfirmed draft with a live hold. A draft
// whose hold has lapsed is expired here and reported as ErrHoldExpired.
func (t *Trip) liveDraftLocked(bookingID, ownerID string, now time.Time) (*DraftBooking, *Hold, error) {
	draft, ok := t.drafts[bookingID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if draft.OwnerID != ownerID {
		return nil, nil, ErrForbidden
	}
	if draft.Status == DraftStatusConfirmed {
		return nil, nil, ErrAlreadyConfirmed
	}

	hold, ok := t.holds[draft.HoldID]
	if !ok {
		t.dropDraftLocked(draft)
		return nil, nil, ErrHoldExpired
	}
	if !hold.ExpiresAt.After(now) {
		t.releaseLocked(hold)
		return nil, nil, ErrHoldExpired
	}
	return draft, hold, nil
}

func (t *Trip) releaseLocked(hold *Hold) {
	for _, id := range hold.SeatIDs {
		if t.holder[id] == hold.ID {
			delete(t.seats, id)
			delete(t.holder, id)
		}
	}
	delete(t.holds, hold.ID)

	if draft, ok := t.drafts[hold.BookingID]; ok && draft.Status == DraftStatusDraft {
		t.dropDraftLocked(draft)
	}
}

func (t *Trip) dropDraftLocked(draft *DraftBooking) {
	delete(t.drafts, draft.ID)
	t.index.Delete(draft.ID)
}

// normalize trims and de-duplicates seat ids, keeping request order.
func (t *Trip) normalize(seatIDs []string) ([]string, error) {
	seats := make([]string, 0, len(seatIDs))
	seen := make(map[string]struct{}, len(seatIDs))
	for _, raw := range seatIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, fmt.Errorf("%w: empty seat id", ErrInvalidSeats)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		seats = append(seats, id)
	}

	if len(seats) == 0 || len(seats) > t.opts.MaxSeats {
		return nil, fmt.Errorf("%w: between 1 and %d seats required, got %d", ErrInvalidSeats, t.opts.MaxSeats, len(seats))
	}
	return seats, nil
}
