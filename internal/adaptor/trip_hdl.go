package adaptor

import (
	"net/http"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.TripService
	log     *zap.Logger
}

func NewTripHandler(service usecase.TripService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// SearchTrips handles GET /api/trips?origin=&destination=&date=&page=&per_page=
func (h *TripHandler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.TripSearchRequest{
		Origin:      utils.NormalizeCity(query.Get("origin")),
		Destination: utils.NormalizeCity(query.Get("destination")),
		Date:        query.Get("date"),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	trips, err := h.service.SearchTrips(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "search trips")
		return
	}

	utils.ResponseSuccess(w, "success", trips)
}

// GetTrip handles GET /api/trips/{id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.service.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get trip")
		return
	}

	utils.ResponseSuccess(w, "success", trip)
}

// GetSeatMap handles GET /api/trips/{id}/seats
func (h *TripHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.service.GetSeatMap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}
