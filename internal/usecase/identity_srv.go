package usecase

import (
	"context"
	"fmt"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"
	"bonus-tma/pkg/telegram"

	"go.uber.org/zap"
)

// IdentityService maps a verified Telegram user onto a local member record.
type IdentityService interface {
	Resolve(ctx context.Context, tgUser *telegram.WebAppUser) (*entity.User, error)
}

type identityService struct {
	userRepo repository.UserRepository
	admins   map[string]struct{}
	log      *zap.Logger
}

func NewIdentityService(userRepo repository.UserRepository, adminTelegramIDs []string, log *zap.Logger) IdentityService {
	admins := make(map[string]struct{}, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = struct{}{}
	}

	return &identityService{
		userRepo: userRepo,
		admins:   admins,
		log:      log.With(zap.String("service", "identity")),
	}
}

// Resolve creates the member on first contact with zero balance and promotes
// configured admin ids.
func (s *identityService) Resolve(ctx context.Context, tgUser *telegram.WebAppUser) (*entity.User, error) {
	tgID := tgUser.Identity()

	user, created, err := s.userRepo.GetOrCreateByTelegramID(ctx, tgID)
	if err != nil {
		return nil, fmt.Errorf("resolve telegram user %s: %w", tgID, err)
	}
	if created {
		s.log.Info("New member registered",
			zap.String("user_id", user.ID.String()),
			zap.String("tg_id", tgID),
			zap.String("username", tgUser.Username),
		)
	}

	if _, ok := s.admins[tgID]; ok && !user.IsAdmin() {
		user, err = s.userRepo.PromoteToAdmin(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("promote telegram user %s: %w", tgID, err)
		}
	}

	return user, nil
}
