package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNegativeBalance     = errors.New("balance would become negative")
	ErrServiceUnavailable  = errors.New("service not found or inactive")
	ErrAlreadyPurchased    = errors.New("service already purchased")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPhoneTaken          = errors.New("phone already used")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

func isCheckViolation(err error) bool {
	return pgErrorCode(err) == pgCheckViolation
}
