package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PurchaseRepository interface {
	// Redeem inserts the purchase and debits the service price atomically.
	// Failures are reported in precondition order: ErrServiceUnavailable,
	// ErrAlreadyPurchased, ErrInsufficientBalance.
	Redeem(ctx context.Context, userID, serviceID uuid.UUID) (*entity.PurchaseDetail, int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PurchaseDetail, error)
	CountAll(ctx context.Context) (int64, error)
}

type purchaseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPurchaseRepository(db database.PgxIface, log *zap.Logger) PurchaseRepository {
	return &purchaseRepository{
		db:  db,
		log: log.With(zap.String("repository", "purchase")),
	}
}

func (r *purchaseRepository) Redeem(ctx context.Context, userID, serviceID uuid.UUID) (*entity.PurchaseDetail, int64, error) {
	purchase := &entity.PurchaseDetail{
		Purchase: entity.Purchase{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			UserID:    userID,
			ServiceID: serviceID,
		},
	}
	var balance int64

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// FOR SHARE keeps the price and active flag stable until commit
		err := tx.QueryRow(ctx,
			`SELECT title, partner, description, price FROM services WHERE id = $1 AND active FOR SHARE`, serviceID,
		).Scan(&purchase.Title, &purchase.Partner, &purchase.Description, &purchase.Price)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrServiceUnavailable
		}
		if err != nil {
			return fmt.Errorf("load service price: %w", err)
		}

		// the (user_id, service_id) unique constraint arbitrates concurrent redemptions
		tag, err := tx.Exec(ctx, `
			INSERT INTO purchases (id, user_id, service_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, service_id) DO NOTHING`,
			purchase.ID, purchase.UserID, purchase.ServiceID, purchase.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyPurchased
		}

		err = tx.QueryRow(ctx, `
			UPDATE users SET balance = balance - $2
			WHERE id = $1 AND balance >= $2
			RETURNING balance`,
			userID, purchase.Price,
		).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			// rollback drops the purchase row inserted above
			return ErrInsufficientBalance
		}
		if err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrServiceUnavailable),
			errors.Is(err, ErrAlreadyPurchased),
			errors.Is(err, ErrInsufficientBalance):
			r.log.Debug("Redemption rejected",
				zap.Error(err),
				zap.String("user_id", userID.String()),
				zap.String("service_id", serviceID.String()),
			)
		default:
			r.log.Error("Redemption transaction failed",
				zap.Error(err),
				zap.String("user_id", userID.String()),
				zap.String("service_id", serviceID.String()),
			)
		}
		return nil, 0, err
	}

	return purchase, balance, nil
}

// FindByUserID returns purchase history joined with service metadata, newest first
func (r *purchaseRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PurchaseDetail, error) {
	query := `
		SELECT p.id, p.user_id, p.service_id, p.created_at,
		       s.title, s.partner, s.description, s.price
		FROM purchases p
		JOIN services s ON s.id = p.service_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find purchases by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find purchases by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	purchases := make([]*entity.PurchaseDetail, 0)
	for rows.Next() {
		var p entity.PurchaseDetail
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ServiceID,
			&p.CreatedAt,
			&p.Title,
			&p.Partner,
			&p.Description,
			&p.Price,
		)
		if err != nil {
			r.log.Error("Failed to scan purchase row", zap.Error(err))
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase rows: %w", err)
	}

	return purchases, nil
}

func (r *purchaseRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&count); err != nil {
		r.log.Error("Database error counting purchases", zap.Error(err))
		return 0, fmt.Errorf("count all purchases: %w", err)
	}
	return count, nil
}
