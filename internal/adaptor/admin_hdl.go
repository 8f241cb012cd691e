package adaptor

import (
	"net/http"

	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/usecase"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ListUsers handles GET /api/admin/users. Without per_page every user is returned.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 0),
	}

	users, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// CreditBonus handles POST /api/admin/bonus
func (h *AdminHandler) CreditBonus(w http.ResponseWriter, r *http.Request) {
	var req request.CreditBonusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.CreditBonus(r.Context(), actor(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "credit bonus")
		return
	}

	utils.ResponseSuccess(w, "Bonus credited", result)
}

// RecentCredits handles GET /api/admin/bonus
func (h *AdminHandler) RecentCredits(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), usecase.DefaultRecentCredits)

	credits, err := h.service.RecentCredits(r.Context(), limit)
	if err != nil {
		handleServiceError(w, h.log, err, "list credits")
		return
	}

	utils.ResponseSuccess(w, "success", credits)
}

// actor names who performed an admin write, for the credit ledger
func actor(r *http.Request) string {
	if utils.IsAdminKeyRequest(r.Context()) {
		return "api-key"
	}
	if user, ok := utils.GetUserFromContext(r.Context()); ok {
		if user.TelegramID != nil {
			return "tg:" + *user.TelegramID
		}
		return "user:" + user.ID.String()
	}
	return "unknown"
}
