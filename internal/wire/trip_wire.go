package wire

import (
	"net/http"

	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTrip(
	r chi.Router,
	tripHandler *adaptor.TripHandler,
	bookingHandler *adaptor.BookingHandler,
	auth func(http.Handler) http.Handler,
	rateLimit func(http.Handler) http.Handler,
) {
	r.Route("/api/trips", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", tripHandler.SearchTrips)
		r.Get("/{id}", tripHandler.GetTrip)
		r.Get("/{id}/seats", tripHandler.GetSeatMap)

		// ==================== PROTECTED ROUTES ====================
		// Rate limiting runs after auth so buckets can be keyed by user.
		r.With(auth, rateLimit).Post("/{id}/holds", bookingHandler.HoldSeats)
	})
}
