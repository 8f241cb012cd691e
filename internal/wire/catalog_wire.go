package wire

import (
	"bonus-tma/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	// GET /api/services - active services, newest first
	r.Get("/services", catalogHandler.ListActive)
}
