package entity

import (
	"github.com/google/uuid"
)

// BonusCredit records one admin balance adjustment.
type BonusCredit struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Phone     string    `db:"phone"`
	Amount    int64     `db:"amount"`
	Note      *string   `db:"note"`
	CreatedBy string    `db:"created_by"`
}
