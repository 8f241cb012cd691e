// internal/wire/wire.go
package wire

import (
	"net/http"

	"bonus-tma/internal/adaptor"
	"bonus-tma/internal/data/repository"
	"bonus-tma/internal/usecase"
	"bonus-tma/pkg/database"
	"bonus-tma/pkg/metrics"
	"bonus-tma/pkg/middleware"
	"bonus-tma/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled router
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes. db may be nil in tests, in
// which case /health does not ping the database.
func Wiring(repo *repository.Repository, db database.PgxIface, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, db, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	db database.PgxIface,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	r.Get("/health", healthHandler(db, logger))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst, logger)

	auth := middleware.TelegramAuth(config.Telegram, service.Identity, logger)

	r.Route("/api", func(r chi.Router) {
		// user and catalog requests carry signed init data
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(limiter.Handler)

			wireUser(r, handler.User, handler.Redeem)
			wireCatalog(r, handler.Catalog)
		})

		// operator tools may authenticate with the API key alone
		r.Group(func(r chi.Router) {
			r.Use(middleware.UnlessAdminKey(auth))
			r.Use(limiter.Handler)

			wireAdmin(r, handler.Admin, handler.Catalog, config, logger)
		})
	})

	return r
}

func healthHandler(db database.PgxIface, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				logger.Error("Health check: database unreachable", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
