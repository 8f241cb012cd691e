package wire

import (
	"bonus-tma/internal/adaptor"
	"bonus-tma/pkg/middleware"
	"bonus-tma/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	catalogHandler *adaptor.CatalogHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Admin(config.Admin.APIKeyHash, log))

		r.Get("/users", adminHandler.ListUsers)

		r.Get("/bonus", adminHandler.RecentCredits)
		r.Post("/bonus", adminHandler.CreditBonus)

		r.Get("/services", catalogHandler.ListAll)
		r.Post("/services", catalogHandler.Create)
		r.Patch("/services/{id}", catalogHandler.Update)
	})
}
