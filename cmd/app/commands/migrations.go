package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/allisson/qrseal/migrations"
)

// RunMigrations applies the embedded config_documents and auth migrations for driver
// ("postgres" or "mysql"). With rollback set it reverts the latest migration
// instead. Having nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string, rollback bool) error {
	logger.Info("running database migrations",
		slog.String("driver", driver),
		slog.Bool("rollback", rollback),
	)

	m, err := newMigrate(driver, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if rollback {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("migrations completed, schema is empty")
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	default:
		logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}

func newMigrate(driver, connectionString string) (*migrate.Migrate, error) {
	files, err := migrations.FS(driver)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, err
	}

	return migrate.NewWithSourceInstance("iofs", source, migrationURL(driver, connectionString))
}

// migrationURL adds the mysql:// scheme migrate needs to a go-sql-driver DSN.
func migrationURL(driver, connectionString string) string {
	if driver == "mysql" && !strings.Contains(connectionString, "://") {
		return "mysql://" + connectionString
	}
	return connectionString
}
