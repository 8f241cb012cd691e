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
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByTelegramID(ctx context.Context, tgID string) (*entity.User, error)
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)

	// GetOrCreateByTelegramID is safe under concurrent first contact: the
	// unique tg_id index decides the winner and losers read its row.
	GetOrCreateByTelegramID(ctx context.Context, tgID string) (*entity.User, bool, error)
	PromoteToAdmin(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// SetPhone links phone to the user. A phone held by any other row,
	// including one created by an admin credit, is ErrPhoneTaken.
	SetPhone(ctx context.Context, id uuid.UUID, phone string) (*entity.User, error)

	// CreditByPhone adds amount to the user owning phone, creating the user
	// when absent, and records the ledger entry in the same transaction.
	CreditByPhone(ctx context.Context, credit *entity.BonusCredit) (*entity.User, error)
}

// querier is satisfied by both the pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const userColumns = `id, tg_id, phone, balance, role, created_at`

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Phone,
		&user.Balance,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) findOne(ctx context.Context, q querier, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	return scanUser(q.QueryRow(ctx, query, arg))
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.findOne(ctx, r.db, "id = $1", id)
	if err != nil {
		r.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}
	return user, nil
}

func (r *userRepository) FindByTelegramID(ctx context.Context, tgID string) (*entity.User, error) {
	user, err := r.findOne(ctx, r.db, "tg_id = $1", tgID)
	if err != nil {
		r.log.Error("Failed to find user by telegram ID",
			zap.Error(err),
			zap.String("tg_id", tgID),
		)
		return nil, fmt.Errorf("find user by telegram ID %s: %w", tgID, err)
	}
	return user, nil
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	user, err := r.findOne(ctx, r.db, "phone = $1", phone)
	if err != nil {
		r.log.Error("Failed to find user by phone",
			zap.Error(err),
			zap.String("phone", phone),
		)
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	return user, nil
}

// FindAll retrieves paginated list of users, newest first. A limit of 0 returns every user.
func (r *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	// LIMIT NULL is LIMIT ALL
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.db.Query(ctx, query, limitArg, offset)
	if err != nil {
		r.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		r.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}
	return count, nil
}

func (r *userRepository) GetOrCreateByTelegramID(ctx context.Context, tgID string) (*entity.User, bool, error) {
	query := `
		INSERT INTO users (id, tg_id, balance, role, created_at)
		VALUES ($1, $2, 0, $3, $4)
		ON CONFLICT (tg_id) DO NOTHING
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, uuid.New(), tgID, entity.RoleUser, time.Now()))
	if err != nil {
		r.log.Error("Failed to create user for telegram ID",
			zap.Error(err),
			zap.String("tg_id", tgID),
		)
		return nil, false, fmt.Errorf("create user for telegram ID %s: %w", tgID, err)
	}
	if user != nil {
		r.log.Info("User created on first contact",
			zap.String("user_id", user.ID.String()),
			zap.String("tg_id", tgID),
		)
		return user, true, nil
	}

	// lost the insert race or the user already existed
	user, err = r.FindByTelegramID(ctx, tgID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, fmt.Errorf("user for telegram ID %s vanished after conflict", tgID)
	}
	return user, false, nil
}

func (r *userRepository) PromoteToAdmin(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `UPDATE users SET role = $2 WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, entity.RoleAdmin))
	if err != nil {
		r.log.Error("Failed to promote user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("promote user %s: %w", id.String(), err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", id.String())
	}

	r.log.Info("User promoted to admin", zap.String("user_id", id.String()))
	return user, nil
}

func (r *userRepository) SetPhone(ctx context.Context, id uuid.UUID, phone string) (*entity.User, error) {
	query := `UPDATE users SET phone = $2 WHERE id = $1 RETURNING ` + userColumns

	// the unique phone index arbitrates between concurrent claims
	user, err := scanUser(r.db.QueryRow(ctx, query, id, phone))
	if isUniqueViolation(err) {
		return nil, ErrPhoneTaken
	}
	if err != nil {
		r.log.Error("Failed to set phone",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("set phone for user %s: %w", id.String(), err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", id.String())
	}

	return user, nil
}

func (r *userRepository) CreditByPhone(ctx context.Context, credit *entity.BonusCredit) (*entity.User, error) {
	var user *entity.User

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		user, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users (id, phone, balance, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (phone) DO UPDATE SET balance = users.balance + EXCLUDED.balance
			RETURNING `+userColumns,
			uuid.New(), credit.Phone, credit.Amount, entity.RoleUser, credit.CreatedAt,
		))
		if isCheckViolation(err) {
			return ErrNegativeBalance
		}
		if err != nil {
			return fmt.Errorf("upsert user by phone: %w", err)
		}

		credit.UserID = user.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO bonus_credits (id, user_id, phone, amount, note, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			credit.ID, credit.UserID, credit.Phone, credit.Amount, credit.Note, credit.CreatedBy, credit.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert bonus credit: %w", err)
		}
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrNegativeBalance) {
			r.log.Error("Failed to credit bonus",
				zap.Error(err),
				zap.String("phone", credit.Phone),
				zap.Int64("amount", credit.Amount),
			)
		}
		return nil, err
	}

	return user, nil
}
