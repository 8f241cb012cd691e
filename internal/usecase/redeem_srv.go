package usecase

import (
	"context"
	"errors"
	"fmt"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"
	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/dto/response"
	"bonus-tma/pkg/metrics"
	"bonus-tma/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RedeemService interface {
	Redeem(ctx context.Context, user *entity.User, req *request.RedeemRequest) (*response.RedeemResponse, error)
}

type redeemService struct {
	purchaseRepo repository.PurchaseRepository
	log          *zap.Logger
}

func NewRedeemService(purchaseRepo repository.PurchaseRepository, log *zap.Logger) RedeemService {
	return &redeemService{
		purchaseRepo: purchaseRepo,
		log:          log.With(zap.String("service", "redeem")),
	}
}

// Redeem exchanges balance for a service. The repository transaction is the
// only place the preconditions are checked.
func (s *redeemService) Redeem(ctx context.Context, user *entity.User, req *request.RedeemRequest) (*response.RedeemResponse, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: no user", utils.ErrUnauthorized)
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid serviceId", utils.ErrValidation)
	}

	purchase, balance, err := s.purchaseRepo.Redeem(ctx, user.ID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrServiceUnavailable):
			metrics.RecordRedemption(metrics.ResultServiceUnavailable, 0)
			return nil, fmt.Errorf("%w: service not found", utils.ErrNotFound)
		case errors.Is(err, repository.ErrAlreadyPurchased):
			metrics.RecordRedemption(metrics.ResultAlreadyPurchased, 0)
			return nil, fmt.Errorf("%w: already purchased", utils.ErrConflict)
		case errors.Is(err, repository.ErrInsufficientBalance):
			metrics.RecordRedemption(metrics.ResultInsufficientBalance, 0)
			return nil, utils.ErrInsufficientBalance
		default:
			metrics.RecordRedemption(metrics.ResultError, 0)
			return nil, fmt.Errorf("redeem service %s: %w", serviceID, err)
		}
	}

	metrics.RecordRedemption(metrics.ResultSuccess, purchase.Price)
	s.log.Info("Service redeemed",
		zap.String("user_id", user.ID.String()),
		zap.String("service_id", serviceID.String()),
		zap.Int64("price", purchase.Price),
		zap.Int64("balance", balance),
	)

	return &response.RedeemResponse{
		Balance:  balance,
		Purchase: response.PurchaseToResponse(purchase),
	}, nil
}
