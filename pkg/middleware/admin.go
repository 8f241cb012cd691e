package middleware

import (
	"net/http"

	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the operator API key checked against ADMIN_API_KEY_HASH.
const AdminKeyHeader = "X-Admin-Key"

// Admin - middleware cek role admin atau operator API key
func Admin(apiKeyHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, hasUser := utils.GetUserFromContext(r.Context())
			if hasUser && user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			if key := r.Header.Get(AdminKeyHeader); key != "" {
				if apiKeyHash != "" && bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(key)) == nil {
					ctx := utils.SetAdminKeyContext(r.Context())
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				logger.Warn("Admin check: invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid admin key")
				return
			}

			if !hasUser {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			logger.Warn("Admin check: non-admin access attempt",
				zap.String("user_id", user.ID.String()),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "Admin access required")
		})
	}
}

// UnlessAdminKey runs auth only for requests without an admin key. Keyed
// requests go straight to next, which must verify the key with Admin.
func UnlessAdminKey(auth func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authed := auth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(AdminKeyHeader) != "" {
				next.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	}
}
