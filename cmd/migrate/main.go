package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	appconfig "github.com/ironclubfit/gymlead-ai/internal/config"
	appmigrations "github.com/ironclubfit/gymlead-ai/migrations"
	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

// Applies the embedded conversations-table migrations.
// `migrate` runs everything up; `migrate force <version>` resets a dirty
// schema version after a failed run.
func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	if err := run(cfg.DatabaseURL, os.Args[1:], logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(databaseURL string, args []string, logger *logging.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("db driver: %w", err)
	}

	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		return fmt.Errorf("source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if version, ok, err := parseForceVersion(args); err != nil {
		return err
	} else if ok {
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		logger.Info("forced schema version", "version", version)
		return nil
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("conversations schema up to date")
	return nil
}

// parseForceVersion recognizes the `force <version>` argument form.
func parseForceVersion(args []string) (int, bool, error) {
	if len(args) == 0 || args[0] != "force" {
		return 0, false, nil
	}
	if len(args) < 2 {
		return 0, false, errors.New("force requires a version argument")
	}
	version, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, false, fmt.Errorf("invalid version %q: %w", args[1], err)
	}
	return version, true, nil
}
