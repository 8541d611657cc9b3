package wire

import (
	"net/http"

	"bus-booking/internal/adaptor"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/layout"
	"bus-booking/internal/ledger"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/clock"
	"bus-booking/pkg/middleware"
	"bus-booking/pkg/queue"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the long-lived components built in main.
type Dependencies struct {
	Repo      *repository.Repository
	Registry  *ledger.Registry
	Layouts   layout.Provider
	Publisher queue.Publisher
	Redis     *redis.Client // nil disables rate limiting
	Clock     clock.Clock
}

type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers and mounts every route.
func Wiring(deps Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Registry, deps.Layouts, deps.Publisher, deps.Clock, config, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, deps, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, deps Dependencies, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.AuthSession(deps.Repo.Session, logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth)
	wireTrip(r, handler.Trip, handler.Booking, auth, middleware.RateLimit(config.RateLimit, deps.Redis, deps.Clock, logger))
	wireBooking(r, handler.Booking, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]any{
			"service": config.App.Name,
			"ledger":  deps.Registry.Stats(),
		})
	})

	return r
}
