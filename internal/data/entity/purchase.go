package entity

import (
	"github.com/google/uuid"
)

type Purchase struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	ServiceID uuid.UUID `db:"service_id"`
}

// PurchaseDetail is a purchase joined with the service it redeemed.
type PurchaseDetail struct {
	Purchase
	Title       string  `db:"title"`
	Partner     *string `db:"partner"`
	Description *string `db:"description"`
	Price       int64   `db:"price"`
}
