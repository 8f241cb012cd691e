package repository

import (
	"context"
	"errors"
	"fmt"

	"bonus-tma/internal/data/entity"
	"bonus-tma/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	FindActive(ctx context.Context) ([]*entity.Service, error)
	FindAll(ctx context.Context) ([]*entity.Service, error)
	CountAll(ctx context.Context) (int64, error)

	// Update locks the row, applies patch and writes it back in one
	// transaction. It returns nil when the service does not exist.
	Update(ctx context.Context, id uuid.UUID, patch func(*entity.Service)) (*entity.Service, error)
}

const serviceColumns = `id, title, partner, price, description, active, created_at, updated_at`

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var service entity.Service
	err := row.Scan(
		&service.ID,
		&service.Title,
		&service.Partner,
		&service.Price,
		&service.Description,
		&service.Active,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	query := `
		INSERT INTO services (` + serviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		service.ID,
		service.Title,
		service.Partner,
		service.Price,
		service.Description,
		service.Active,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service",
			zap.Error(err),
			zap.String("title", service.Title),
		)
		return fmt.Errorf("create service %s: %w", service.Title, err)
	}

	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	service, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find service by ID %s: %w", id.String(), err)
	}
	return service, nil
}

// FindActive lists the public catalog, newest first
func (r *serviceRepository) FindActive(ctx context.Context) ([]*entity.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services WHERE active ORDER BY created_at DESC, id`)
}

// FindAll includes hidden services for the admin view
func (r *serviceRepository) FindAll(ctx context.Context) ([]*entity.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY created_at DESC, id`)
}

func (r *serviceRepository) list(ctx context.Context, query string) ([]*entity.Service, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]*entity.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services rows: %w", err)
	}

	return services, nil
}

func (r *serviceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&count); err != nil {
		r.log.Error("Database error counting services", zap.Error(err))
		return 0, fmt.Errorf("count all services: %w", err)
	}
	return count, nil
}

func (r *serviceRepository) Update(ctx context.Context, id uuid.UUID, patch func(*entity.Service)) (*entity.Service, error) {
	var service *entity.Service

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// FOR UPDATE serializes concurrent partial updates of the same row
		var err error
		service, err = scanService(tx.QueryRow(ctx,
			`SELECT `+serviceColumns+` FROM services WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return fmt.Errorf("lock service: %w", err)
		}
		if service == nil {
			return nil
		}

		patch(service)

		_, err = tx.Exec(ctx, `
			UPDATE services
			SET title = $2, partner = $3, price = $4, description = $5,
			    active = $6, updated_at = $7
			WHERE id = $1`,
			service.ID,
			service.Title,
			service.Partner,
			service.Price,
			service.Description,
			service.Active,
			service.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("write service: %w", err)
		}
		return nil
	})

	if err != nil {
		r.log.Error("Failed to update service",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("update service %s: %w", id.String(), err)
	}

	return service, nil
}
