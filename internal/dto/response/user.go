package response

import (
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/pkg/telegram"
)

type UserResponse struct {
	ID         string          `json:"id"`
	TelegramID *string         `json:"tg_id"`
	Phone      *string         `json:"phone"`
	Balance    int64           `json:"balance"`
	Role       entity.UserRole `json:"role"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MeResponse carries both the local record and the verified platform identity.
// Either may be null for an anonymous request.
type MeResponse struct {
	User   *UserResponse        `json:"user"`
	TgUser *telegram.WebAppUser `json:"tgUser"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		TelegramID: user.TelegramID,
		Phone:      user.Phone,
		Balance:    user.Balance,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToResponse(u))
	}
	return out
}

func MeToResponse(user *entity.User, tgUser *telegram.WebAppUser) MeResponse {
	resp := MeResponse{TgUser: tgUser}
	if user != nil {
		u := UserToResponse(user)
		resp.User = &u
	}
	return resp
}
