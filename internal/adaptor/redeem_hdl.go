package adaptor

import (
	"net/http"

	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/usecase"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

type RedeemHandler struct {
	service usecase.RedeemService
	log     *zap.Logger
}

func NewRedeemHandler(service usecase.RedeemService, log *zap.Logger) *RedeemHandler {
	return &RedeemHandler{
		service: service,
		log:     log.With(zap.String("handler", "redeem")),
	}
}

// Redeem handles POST /api/user/redeem
func (h *RedeemHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "no user")
		return
	}

	var req request.RedeemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Redeem(r.Context(), user, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "redeem")
		return
	}

	utils.ResponseSuccess(w, "Redeemed", result)
}
