package repository

import (
	"context"
	"fmt"

	"bonus-tma/internal/data/entity"
	"bonus-tma/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BonusRepository reads the credit ledger. Entries are written by
// UserRepository.CreditByPhone in the same transaction as the balance change.
type BonusRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BonusCredit, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.BonusCredit, error)
}

const bonusColumns = `id, user_id, phone, amount, note, created_by, created_at`

type bonusRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBonusRepository(db database.PgxIface, log *zap.Logger) BonusRepository {
	return &bonusRepository{
		db:  db,
		log: log.With(zap.String("repository", "bonus")),
	}
}

func (r *bonusRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BonusCredit, error) {
	query := `SELECT ` + bonusColumns + ` FROM bonus_credits WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find credits by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find credits by user ID %s: %w", userID.String(), err)
	}
	return r.collect(rows)
}

func (r *bonusRepository) FindRecent(ctx context.Context, limit int) ([]*entity.BonusCredit, error) {
	query := `SELECT ` + bonusColumns + ` FROM bonus_credits ORDER BY created_at DESC, id LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find recent credits", zap.Error(err), zap.Int("limit", limit))
		return nil, fmt.Errorf("find recent credits: %w", err)
	}
	return r.collect(rows)
}

func (r *bonusRepository) collect(rows pgx.Rows) ([]*entity.BonusCredit, error) {
	defer rows.Close()

	credits := make([]*entity.BonusCredit, 0)
	for rows.Next() {
		var c entity.BonusCredit
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Phone,
			&c.Amount,
			&c.Note,
			&c.CreatedBy,
			&c.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan credit row", zap.Error(err))
			return nil, fmt.Errorf("scan credit row: %w", err)
		}
		credits = append(credits, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credit rows: %w", err)
	}
	return credits, nil
}
