package utils

import (
	"context"

	"bonus-tma/internal/data/entity"
	"bonus-tma/pkg/telegram"
)

type contextKey string

const (
	UserKey     contextKey = "user"
	TgUserKey   contextKey = "tg_user"
	AdminKeyKey contextKey = "admin_key"
)

// SetIdentityContext stores the local user record and the verified Telegram user.
// Both may be nil for an anonymous request.
func SetIdentityContext(ctx context.Context, user *entity.User, tgUser *telegram.WebAppUser) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, TgUserKey, tgUser)
	return ctx
}

func GetUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserKey).(*entity.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func GetTgUserFromContext(ctx context.Context) (*telegram.WebAppUser, bool) {
	tgUser, ok := ctx.Value(TgUserKey).(*telegram.WebAppUser)
	if !ok || tgUser == nil {
		return nil, false
	}
	return tgUser, true
}

// SetAdminKeyContext marks a request authenticated by the operator API key.
func SetAdminKeyContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, AdminKeyKey, true)
}

func IsAdminKeyRequest(ctx context.Context) bool {
	ok, _ := ctx.Value(AdminKeyKey).(bool)
	return ok
}
