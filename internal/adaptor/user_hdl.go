package adaptor

import (
	"net/http"

	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/usecase"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// Me handles GET /api/user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())
	tgUser, _ := utils.GetTgUserFromContext(r.Context())

	me, err := h.service.Me(r.Context(), user, tgUser)
	if err != nil {
		handleServiceError(w, h.log, err, "get me")
		return
	}

	utils.ResponseSuccess(w, "success", me)
}

// SetPhone handles POST /api/user/phone
func (h *UserHandler) SetPhone(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "no user")
		return
	}

	var req request.SetPhoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.SetPhone(r.Context(), user, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set phone")
		return
	}

	utils.ResponseSuccess(w, "Phone saved", result)
}

// Purchases handles GET /api/user/purchases
func (h *UserHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "no user")
		return
	}

	purchases, err := h.service.Purchases(r.Context(), user)
	if err != nil {
		handleServiceError(w, h.log, err, "list purchases")
		return
	}

	utils.ResponseSuccess(w, "success", purchases)
}

// Credits handles GET /api/user/credits
func (h *UserHandler) Credits(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "no user")
		return
	}

	credits, err := h.service.Credits(r.Context(), user)
	if err != nil {
		handleServiceError(w, h.log, err, "list credits")
		return
	}

	utils.ResponseSuccess(w, "success", credits)
}
