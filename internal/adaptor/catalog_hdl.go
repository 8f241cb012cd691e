package adaptor

import (
	"net/http"

	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/usecase"
	"bonus-tma/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ListActive handles GET /api/services
func (h *CatalogHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// ListAll handles GET /api/admin/services
func (h *CatalogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list all services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// Create handles POST /api/admin/services
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateServiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	service, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, "Service created", service)
}

// Update handles PATCH /api/admin/services/{id}
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		utils.ResponseBadRequest(w, "Service ID is required", nil)
		return
	}

	var req request.UpdateServiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	service, err := h.service.Update(r.Context(), serviceID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "Service updated", service)
}
