package wire

import (
	"net/http"

	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Put("/api/bookings/{id}", bookingHandler.ReviseBooking)
		r.Get("/api/bookings/{id}/draft", bookingHandler.GetDraft)
		r.Delete("/api/bookings/{id}/hold", bookingHandler.CancelHold)

		r.Post("/api/pay", bookingHandler.ProcessPayment)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/payment-methods", bookingHandler.GetPaymentMethods)
}
