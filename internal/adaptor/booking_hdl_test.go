package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/ledger"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

type stubBookingService struct {
	usecase.BookingService

	err        error
	gotUser    uuid.UUID
	gotTrip    string
	gotBooking string
	gotSeats   []string
}

func (s *stubBookingService) HoldSeats(_ context.Context, userID uuid.UUID, tripID string, req *request.HoldRequest) (*response.HoldResponse, error) {
	s.gotUser, s.gotTrip, s.gotSeats = userID, tripID, req.SeatIDs
	if s.err != nil {
		return nil, s.err
	}
	return &response.HoldResponse{HoldID: "h1", BookingID: "b1", TripID: tripID, SeatIDs: req.SeatIDs, ExpiresAt: time.Unix(0, 0)}, nil
}

func (s *stubBookingService) ReviseBooking(_ context.Context, userID uuid.UUID, bookingID string, req *request.ReviseBookingRequest) (*response.ReviseResponse, error) {
	s.gotUser, s.gotBooking, s.gotSeats = userID, bookingID, req.SeatIDs
	if s.err != nil {
		return nil, s.err
	}
	return &response.ReviseResponse{BookingID: bookingID}, nil
}

func (s *stubBookingService) CancelHold(_ context.Context, userID uuid.UUID, bookingID string) error {
	s.gotUser, s.gotBooking = userID, bookingID
	return s.err
}

func (s *stubBookingService) ProcessPayment(_ context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.BookingResponse, error) {
	s.gotUser, s.gotBooking = userID, req.BookingID
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{ID: req.BookingID}, nil
}

// withUser stands in for the session middleware.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), userID, uuid.NewString())))
		})
	}
}

func newBookingRouter(t *testing.T, svc *stubBookingService, userID uuid.UUID) *chi.Mux {
	t.Helper()
	h := NewBookingHandler(svc, zaptest.NewLogger(t))

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		if userID != uuid.Nil {
			r.Use(withUser(userID))
		}
		r.Post("/api/trips/{id}/holds", h.HoldSeats)
		r.Put("/api/bookings/{id}", h.ReviseBooking)
		r.Delete("/api/bookings/{id}/hold", h.CancelHold)
		r.Post("/api/pay", h.ProcessPayment)
	})
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHoldSeatsHandler(t *testing.T) {
	userID := uuid.New()
	svc := &stubBookingService{}
	router := newBookingRouter(t, svc, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/trips/T1/holds", strings.NewReader(`{"seat_ids":["1","2"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.gotUser != userID || svc.gotTrip != "T1" || len(svc.gotSeats) != 2 {
		t.Fatalf("service got user=%s trip=%s seats=%v", svc.gotUser, svc.gotTrip, svc.gotSeats)
	}

	body := decodeResponse(t, rec)
	data, _ := body["data"].(map[string]any)
	if body["status"] != true || data["booking_id"] != "b1" {
		t.Fatalf("body = %v, want success with booking b1", body)
	}
}

func TestHoldSeatsHandlerConflict(t *testing.T) {
	svc := &stubBookingService{err: &ledger.SeatUnavailableError{SeatID: "2", Status: ledger.SeatHeld}}
	router := newBookingRouter(t, svc, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trips/T1/holds", strings.NewReader(`{"seat_ids":["1","2"]}`)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	body := decodeResponse(t, rec)
	errs, _ := body["errors"].(map[string]any)
	if errs["seat_id"] != "2" || errs["status"] != "held" {
		t.Fatalf("errors = %v, want seat 2 held", body["errors"])
	}
}

func TestBookingHandlersRejectBadInput(t *testing.T) {
	testCases := []struct {
		name   string
		user   uuid.UUID
		method string
		path   string
		body   string
		want   int
	}{
		{name: "no session", user: uuid.Nil, method: http.MethodPost, path: "/api/trips/T1/holds", body: `{"seat_ids":["1"]}`, want: http.StatusUnauthorized},
		{name: "malformed json", user: uuid.New(), method: http.MethodPost, path: "/api/trips/T1/holds", body: `{"seat_ids":`, want: http.StatusBadRequest},
		{name: "unknown field", user: uuid.New(), method: http.MethodPut, path: "/api/bookings/b1", body: `{"seats":["1"]}`, want: http.StatusBadRequest},
		{name: "pay without session", user: uuid.Nil, method: http.MethodPost, path: "/api/pay", body: `{}`, want: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubBookingService{}
			router := newBookingRouter(t, svc, tc.user)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
			if svc.gotUser != uuid.Nil {
				t.Fatal("service called for a rejected request")
			}
		})
	}
}

func TestReviseAndCancelHandlersPassBookingID(t *testing.T) {
	userID := uuid.New()
	svc := &stubBookingService{}
	router := newBookingRouter(t, svc, userID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/bookings/b42", strings.NewReader(`{"seat_ids":["3"]}`)))
	if rec.Code != http.StatusOK || svc.gotBooking != "b42" {
		t.Fatalf("revise status = %d booking = %q, want 200 for b42", rec.Code, svc.gotBooking)
	}

	svc.err = ledger.ErrForbidden
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/bookings/b43/hold", nil))
	if rec.Code != http.StatusForbidden || svc.gotBooking != "b43" {
		t.Fatalf("cancel status = %d booking = %q, want 403 for b43", rec.Code, svc.gotBooking)
	}
}

func TestWriteServiceError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &usecase.ValidationError{Fields: map[string]string{"seat_ids": "This field is required"}}, want: http.StatusBadRequest},
		{name: "seat unavailable", err: fmt.Errorf("hold: %w", &ledger.SeatUnavailableError{SeatID: "1", Status: ledger.SeatBooked}), want: http.StatusConflict},
		{name: "not found", err: ledger.ErrNotFound, want: http.StatusNotFound},
		{name: "hold expired", err: ledger.ErrHoldExpired, want: http.StatusNotFound},
		{name: "trip not found", err: fmt.Errorf("%w: x", usecase.ErrTripNotFound), want: http.StatusNotFound},
		{name: "forbidden", err: ledger.ErrForbidden, want: http.StatusForbidden},
		{name: "already confirmed", err: ledger.ErrAlreadyConfirmed, want: http.StatusConflict},
		{name: "invalid seats", err: fmt.Errorf("%w: too many", ledger.ErrInvalidSeats), want: http.StatusBadRequest},
		{name: "invalid passengers", err: ledger.ErrInvalidPassengers, want: http.StatusBadRequest},
		{name: "unknown seat", err: fmt.Errorf("%w: 99", usecase.ErrUnknownSeat), want: http.StatusBadRequest},
		{name: "amount mismatch", err: usecase.ErrAmountMismatch, want: http.StatusBadRequest},
		{name: "bad search date", err: fmt.Errorf("%w: date", usecase.ErrValidation), want: http.StatusBadRequest},
		{name: "credentials", err: usecase.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "deactivated", err: usecase.ErrAccountDeactivated, want: http.StatusForbidden},
		{name: "email taken", err: usecase.ErrEmailRegistered, want: http.StatusConflict},
		{name: "not persisted", err: fmt.Errorf("%w: %w", usecase.ErrBookingNotPersisted, errors.New("db down")), want: http.StatusInternalServerError},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, zaptest.NewLogger(t), tc.err, "test")
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if body := decodeResponse(t, rec); body["status"] != false {
				t.Fatalf("body status = %v, want false", body["status"])
			}
		})
	}
}
