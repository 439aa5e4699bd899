package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationInfo contains information about the schema version
type MigrationInfo struct {
	Version uint
	Dirty   bool
}

// MigrationManager applies the embedded SQLite schema migrations
type MigrationManager struct {
	databasePath string
	logger       *logrus.Logger
}

// NewMigrationManager creates a migration manager for the SQLite file at databasePath
func NewMigrationManager(databasePath string, logger *logrus.Logger) *MigrationManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MigrationManager{
		databasePath: databasePath,
		logger:       logger,
	}
}

// initMigrate opens its own connection; closing the migrate instance closes it
func (m *MigrationManager) initMigrate() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	mg, err := migrate.NewWithSourceInstance("iofs", source, "sqlite3://"+m.databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}

// RunMigrations executes all pending migrations
func (m *MigrationManager) RunMigrations() error {
	m.logger.Info("Starting database migrations...")

	mg, err := m.initMigrate()
	if err != nil {
		return err
	}
	defer mg.Close()

	currentVersion, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		m.logger.Warn("Database is in dirty state, attempting to force version")
		if err := mg.Force(int(currentVersion)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"previous_version": currentVersion,
		"current_version":  newVersion,
	}).Info("Migrations completed successfully")
	return nil
}

// GetMigrationStatus returns the current schema version
func (m *MigrationManager) GetMigrationStatus() (*MigrationInfo, error) {
	mg, err := m.initMigrate()
	if err != nil {
		return nil, err
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{Version: version, Dirty: dirty}, nil
}
