package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/pkg/metrics"
	"bonus-tma/pkg/telegram"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

// InitDataHeader carries the raw Telegram.WebApp.initData string.
const InitDataHeader = "X-Telegram-Init-Data"

// IdentityResolver turns a verified Telegram user into a local member.
type IdentityResolver interface {
	Resolve(ctx context.Context, tgUser *telegram.WebAppUser) (*entity.User, error)
}

// TelegramAuth verifies the init data header and attaches the member to the
// request context. With SkipAuth every request is anonymous.
func TelegramAuth(config utils.TelegramConfig, resolver IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	maxAge := time.Duration(config.InitDataMaxAge) * time.Second

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.SkipAuth {
				ctx := utils.SetIdentityContext(r.Context(), nil, nil)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			initData := r.Header.Get(InitDataHeader)
			data, err := telegram.VerifyWithAge(initData, config.BotToken, maxAge, time.Now())
			if err != nil {
				reason := failureReason(err)
				metrics.RecordAuthFailure(reason)
				logger.Warn("Init data rejected",
					zap.String("reason", reason),
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				if reason == "missing" {
					utils.ResponseUnauthorized(w, "Missing init data")
					return
				}
				utils.ResponseUnauthorized(w, "Invalid init data")
				return
			}

			// signed payload without a user field stays anonymous
			if data.User == nil {
				ctx := utils.SetIdentityContext(r.Context(), nil, nil)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			user, err := resolver.Resolve(r.Context(), data.User)
			if err != nil {
				logger.Error("Failed to resolve member",
					zap.Error(err),
					zap.Int64("tg_id", data.User.ID),
				)
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), user, data.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, telegram.ErrMissingInitData):
		return "missing"
	case errors.Is(err, telegram.ErrMissingBotToken):
		return "not_configured"
	case errors.Is(err, telegram.ErrExpired):
		return "expired"
	case errors.Is(err, telegram.ErrHashMismatch), errors.Is(err, telegram.ErrMissingHash):
		return "hash_mismatch"
	default:
		return "malformed"
	}
}
