// Package migrations applies the embedded schema with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"bonus-tma/pkg/database"
	"bonus-tma/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// DatabaseURL builds the pgx5:// URL understood by the golang-migrate driver.
func DatabaseURL(config utils.DatabaseConfig) string {
	return driverURL(database.DSN(config))
}

func driverURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

// Up applies every pending migration. It is safe to call on each start.
func Up(config utils.DatabaseConfig, log *zap.Logger) error {
	return UpURL(DatabaseURL(config), log)
}

// UpURL is Up for a ready database URL. postgres:// and postgresql:// URLs
// are rewritten to the pgx5 scheme.
func UpURL(databaseURL string, log *zap.Logger) error {
	databaseURL = driverURL(databaseURL)

	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}

	log.Info("Database migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
