package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// handleServiceError maps usecase error classes onto HTTP statuses.
// Unclassified errors are storage faults and are reported generically.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, utils.ErrUnauthorized):
		utils.ResponseUnauthorized(w, "no user")

	case errors.Is(err, utils.ErrForbidden):
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, utils.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, utils.ErrConflict):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, utils.ErrInsufficientBalance):
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeAndValidate reads a JSON body into req and runs its validator tags.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, utils.FormatValidationErrors(validationErrors), validationErrors)
		return false
	}

	return true
}
