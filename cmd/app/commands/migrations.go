package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/pseudonymizer/internal/database"
)

// RunMigrations applies all pending migrations from migrationsDir for driver.
// Both "postgres" and "pgx" use the PostgreSQL set. Returns nil when nothing is pending.
func RunMigrations(logger *slog.Logger, driver, connectionString, migrationsDir string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	migrationsPath, databaseURL, err := migrationTarget(driver, connectionString, migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationTarget returns the migrations source and the database URL understood
// by golang-migrate. MySQL DSNs from go-sql-driver lack a scheme, so one is added.
func migrationTarget(driver, connectionString, migrationsDir string) (string, string, error) {
	dialect, err := database.DialectFor(driver)
	if err != nil {
		return "", "", err
	}

	if dialect == database.DialectMySQL && !strings.HasPrefix(connectionString, "mysql://") {
		connectionString = "mysql://" + connectionString
	}
	return "file://" + path.Join(migrationsDir, string(dialect)), connectionString, nil
}
