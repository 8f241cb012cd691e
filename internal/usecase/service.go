package usecase

import (
	"bonus-tma/internal/data/repository"
	"bonus-tma/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Identity IdentityService
	User     UserService
	Catalog  CatalogService
	Redeem   RedeemService
	Admin    AdminService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Identity: NewIdentityService(repo.User, config.Admin.TelegramIDs, log),
		User:     NewUserService(repo, log),
		Catalog:  NewCatalogService(repo.Service, log),
		Redeem:   NewRedeemService(repo.Purchase, log),
		Admin:    NewAdminService(repo, log),
	}
}
