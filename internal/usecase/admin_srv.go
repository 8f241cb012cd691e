package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"
	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/dto/response"
	"bonus-tma/pkg/metrics"
	"bonus-tma/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultRecentCredits = 50
	MaxRecentCredits     = 200
)

type AdminService interface {
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreditBonus(ctx context.Context, actor string, req *request.CreditBonusRequest) (*response.CreditResultResponse, error)
	RecentCredits(ctx context.Context, limit int) (*response.CreditListResponse, error)
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	users, err := s.repo.User.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	page, perPage := req.Page, limit
	if limit == 0 {
		// unpaged: the whole listing is one page
		page, perPage = 1, int(total)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), page, perPage, total), nil
}

// CreditBonus adjusts the balance of the member owning the phone, creating an
// unlinked member when the phone is unknown.
func (s *adminService) CreditBonus(ctx context.Context, actor string, req *request.CreditBonusRequest) (*response.CreditResultResponse, error) {
	if req.Amount == 0 {
		return nil, fmt.Errorf("%w: amount must not be zero", utils.ErrValidation)
	}

	var note *string
	if req.Note != nil {
		if trimmed := strings.TrimSpace(*req.Note); trimmed != "" {
			note = &trimmed
		}
	}

	credit := &entity.BonusCredit{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Phone:     req.Phone,
		Amount:    req.Amount,
		Note:      note,
		CreatedBy: actor,
	}

	user, err := s.repo.User.CreditByPhone(ctx, credit)
	if err != nil {
		if errors.Is(err, repository.ErrNegativeBalance) {
			s.log.Warn("Correction rejected, balance would go negative",
				zap.Int64("amount", req.Amount),
				zap.String("actor", actor),
			)
			return nil, fmt.Errorf("%w: correction exceeds balance", utils.ErrInsufficientBalance)
		}
		return nil, fmt.Errorf("credit bonus: %w", err)
	}

	metrics.RecordCredit(req.Amount)
	s.log.Info("Bonus credited",
		zap.String("user_id", user.ID.String()),
		zap.Int64("amount", req.Amount),
		zap.Int64("balance", user.Balance),
		zap.String("actor", actor),
	)

	return &response.CreditResultResponse{
		User:   response.UserToResponse(user),
		Credit: response.CreditToResponse(credit),
	}, nil
}

func (s *adminService) RecentCredits(ctx context.Context, limit int) (*response.CreditListResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentCredits
	}
	if limit > MaxRecentCredits {
		limit = MaxRecentCredits
	}

	credits, err := s.repo.Bonus.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent credits: %w", err)
	}

	resp := response.CreditsToResponse(credits)
	return &resp, nil
}
