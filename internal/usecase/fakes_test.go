package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/layout"
	"bus-booking/internal/ledger"
	"bus-booking/pkg/clock"
	"bus-booking/pkg/queue"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	clock    clock.Clock
	sessions map[string]*entity.Session
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token.String()] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[token]
	if !ok || !session.Active(r.clock.Now()) {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[token]; ok {
		now := r.clock.Now()
		session.RevokedAt = &now
	}
	return nil
}

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]*entity.Schedule
}

func (r *fakeScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Schedule, error) {
	return r.schedules[id], nil
}

func (r *fakeScheduleRepo) Search(_ context.Context, filter repository.ScheduleFilter, limit, offset int) ([]*entity.Schedule, error) {
	var out []*entity.Schedule
	for _, s := range r.schedules {
		if filter.Origin != "" && s.Origin != filter.Origin {
			continue
		}
		out = append(out, s)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeScheduleRepo) Count(ctx context.Context, filter repository.ScheduleFilter) (int64, error) {
	all, _ := r.Search(ctx, filter, len(r.schedules), 0)
	return int64(len(all)), nil
}

type fakePaymentMethodRepo struct {
	methods map[uuid.UUID]*entity.PaymentMethod
}

func (r *fakePaymentMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	return r.methods[id], nil
}

func (r *fakePaymentMethodRepo) FindAllActive(_ context.Context) ([]*entity.PaymentMethod, error) {
	var out []*entity.PaymentMethod
	for _, m := range r.methods {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]*entity.Booking
	passengers map[uuid.UUID][]*entity.BookingPassenger
	payments   map[uuid.UUID]*entity.Payment
	booked     map[uuid.UUID][]string

	// failures makes the next n CreateConfirmed calls fail with failWith.
	failures int
	failWith error
	// commitThenFail stores the booking but still reports failWith once.
	commitThenFail bool
	calls          int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:   make(map[uuid.UUID]*entity.Booking),
		passengers: make(map[uuid.UUID][]*entity.BookingPassenger),
		payments:   make(map[uuid.UUID]*entity.Payment),
		booked:     make(map[uuid.UUID][]string),
	}
}

func (r *fakeBookingRepo) CreateConfirmed(_ context.Context, booking *entity.Booking, passengers []*entity.BookingPassenger, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if _, exists := r.bookings[booking.ID]; exists {
		return repository.ErrDuplicate
	}
	if r.failures > 0 && !r.commitThenFail {
		r.failures--
		return r.failWith
	}

	r.bookings[booking.ID] = booking
	r.passengers[booking.ID] = passengers
	r.payments[booking.ID] = payment
	for _, p := range passengers {
		r.booked[booking.ScheduleID] = append(r.booked[booking.ScheduleID], p.SeatID)
	}

	if r.failures > 0 && r.commitThenFail {
		r.failures--
		return r.failWith
	}
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id], nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, _ := r.FindByUserID(ctx, userID, 1<<30, 0)
	return int64(len(all)), nil
}

func (r *fakeBookingRepo) FindPassengers(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingPassenger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passengers[bookingID], nil
}

func (r *fakeBookingRepo) FindBookedSeatsBySchedule(_ context.Context, scheduleID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.booked[scheduleID]...), nil
}

type fakePaymentRepo struct {
	bookings *fakeBookingRepo
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	r.bookings.mu.Lock()
	defer r.bookings.mu.Unlock()
	return r.bookings.payments[bookingID], nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *fakePublisher) PublishBookingConfirmed(_ context.Context, event queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []queue.BookingConfirmedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.BookingConfirmedEvent(nil), p.events...)
}

type testEnv struct {
	svc       *Service
	clock     *clock.FakeClock
	registry  *ledger.Registry
	users     *fakeUserRepo
	sessions  *fakeSessionRepo
	schedules *fakeScheduleRepo
	bookings  *fakeBookingRepo
	publisher *fakePublisher

	trip   *entity.Schedule
	method *entity.PaymentMethod
	alice  uuid.UUID
	bob    uuid.UUID
}

// newTestEnv wires services over in-memory repositories with one open trip
// on a 2x2 bus ("1".."4") priced at 100.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zaptest.NewLogger(t)
	clk := clock.Fake(epoch)

	trip := &entity.Schedule{
		Base:        entity.Base{ID: uuid.New()},
		Origin:      "Jakarta",
		Destination: "Bandung",
		DepartureAt: epoch.Add(6 * time.Hour),
		ArrivalAt:   epoch.Add(9 * time.Hour),
		Price:       100,
		Status:      entity.ScheduleStatusScheduled,
		Operator:    "Primajasa",
		BusClass:    entity.BusClassEconomy,
		LayoutCode:  "mini",
	}
	method := &entity.PaymentMethod{Base: entity.Base{ID: uuid.New()}, Name: "Virtual Account", IsActive: true}

	layouts, err := layout.New(layout.Layout{Code: "mini", Grid: &layout.Grid{Rows: 2, Columns: 2}})
	if err != nil {
		t.Fatalf("layout.New() error = %v", err)
	}

	env := &testEnv{
		clock:     clk,
		registry:  ledger.NewRegistry(ledger.DefaultOptions(), clk, log),
		users:     &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)},
		sessions:  &fakeSessionRepo{clock: clk, sessions: make(map[string]*entity.Session)},
		schedules: &fakeScheduleRepo{schedules: map[uuid.UUID]*entity.Schedule{trip.ID: trip}},
		bookings:  newFakeBookingRepo(),
		publisher: &fakePublisher{},
		trip:      trip,
		method:    method,
		alice:     uuid.New(),
		bob:       uuid.New(),
	}

	repo := &repository.Repository{
		User:          env.users,
		Session:       env.sessions,
		Schedule:      env.schedules,
		PaymentMethod: &fakePaymentMethodRepo{methods: map[uuid.UUID]*entity.PaymentMethod{method.ID: method}},
		Booking:       env.bookings,
		Payment:       &fakePaymentRepo{bookings: env.bookings},
	}
	config := &utils.Config{
		Persist: utils.PersistConfig{RetryAttempts: 3, RetryDelay: time.Millisecond},
		Session: utils.SessionConfig{ExpiryHours: 24},
	}

	env.svc = NewService(repo, env.registry, layouts, env.publisher, clk, config, log)
	return env
}

func assertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
