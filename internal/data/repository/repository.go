package repository

import (
	"bonus-tma/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Service  ServiceRepository
	Purchase PurchaseRepository
	Bonus    BonusRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Service:  NewServiceRepository(db, log),
		Purchase: NewPurchaseRepository(db, log),
		Bonus:    NewBonusRepository(db, log),
	}
}
