package usecase

import (
	"context"
	"errors"
	"fmt"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"
	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/dto/response"
	"bonus-tma/pkg/telegram"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	Me(ctx context.Context, user *entity.User, tgUser *telegram.WebAppUser) (*response.MeResponse, error)
	SetPhone(ctx context.Context, user *entity.User, req *request.SetPhoneRequest) (*response.UserEnvelope, error)
	Purchases(ctx context.Context, user *entity.User) (*response.PurchaseListResponse, error)
	Credits(ctx context.Context, user *entity.User) (*response.CreditListResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) Me(ctx context.Context, user *entity.User, tgUser *telegram.WebAppUser) (*response.MeResponse, error) {
	if user == nil {
		resp := response.MeToResponse(nil, tgUser)
		return &resp, nil
	}

	// reload so the balance reflects writes made earlier in this request chain
	fresh, err := us.repo.User.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: user %s", utils.ErrNotFound, user.ID)
	}

	resp := response.MeToResponse(fresh, tgUser)
	return &resp, nil
}

func (us *userService) SetPhone(ctx context.Context, user *entity.User, req *request.SetPhoneRequest) (*response.UserEnvelope, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: no user", utils.ErrUnauthorized)
	}

	updated, err := us.repo.User.SetPhone(ctx, user.ID, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrPhoneTaken) {
			us.log.Warn("Phone already claimed",
				zap.String("user_id", user.ID.String()),
			)
			return nil, fmt.Errorf("%w: phone already used", utils.ErrConflict)
		}
		return nil, fmt.Errorf("set phone: %w", err)
	}

	us.log.Info("Phone linked",
		zap.String("user_id", updated.ID.String()),
		zap.Int64("balance", updated.Balance),
	)

	return &response.UserEnvelope{User: response.UserToResponse(updated)}, nil
}

func (us *userService) Purchases(ctx context.Context, user *entity.User) (*response.PurchaseListResponse, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: no user", utils.ErrUnauthorized)
	}

	purchases, err := us.repo.Purchase.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	resp := response.PurchasesToResponse(purchases)
	return &resp, nil
}

func (us *userService) Credits(ctx context.Context, user *entity.User) (*response.CreditListResponse, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: no user", utils.ErrUnauthorized)
	}

	credits, err := us.repo.Bonus.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}

	resp := response.CreditsToResponse(credits)
	return &resp, nil
}
