package adaptor

import (
	"bonus-tma/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	User    *UserHandler
	Catalog *CatalogHandler
	Redeem  *RedeemHandler
	Admin   *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:    NewUserHandler(service.User, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
		Redeem:  NewRedeemHandler(service.Redeem, log),
		Admin:   NewAdminHandler(service.Admin, log),
	}
}
