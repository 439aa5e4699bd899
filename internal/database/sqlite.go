package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// OpenSQLite creates the parent directory, migrates the schema and opens the
// database at path
func OpenSQLite(path string, logger *logrus.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := NewMigrationManager(absPath, logger).RunMigrations(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", absPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.WithField("db_path", absPath).Info("Database connection established")
	return db, nil
}
