// Package sqlite provides a SQLite-backed implementation of the settings store port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/logging"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Adapter implements ports.SettingsStore for SQLite. The settings live in a
// single row that is seeded on first open.
type Adapter struct {
	db       *sql.DB
	defaults domain.Settings
}

// NewAdapter creates a connection, runs the schema migration and seeds the
// settings row with defaults when the table is empty.
func NewAdapter(storagePath string, defaults domain.Settings) (*Adapter, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if storagePath == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db, defaults: defaults}
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log := logging.With("sqlite")
	log.Debug().Str("path", storagePath).Msg("settings store ready")
	return adapter, nil
}

// NewMemory opens a store that keeps settings for the life of the process.
func NewMemory(defaults domain.Settings) (*Adapter, error) {
	return NewAdapter(MemoryPath, defaults)
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// CurrentSettings returns the persisted snapshot.
func (a *Adapter) CurrentSettings(ctx context.Context) (domain.Settings, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT popularity_bias, freshness_days, obscurity_min_score
		FROM settings WHERE id = 1
	`)
	var s domain.Settings
	if err := row.Scan(&s.PopularityBias, &s.FreshnessDays, &s.ObscurityMinScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a.defaults, nil
		}
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// SaveSettings validates and replaces the snapshot.
func (a *Adapter) SaveSettings(ctx context.Context, s domain.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO settings (id, popularity_bias, freshness_days, obscurity_min_score, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			popularity_bias=excluded.popularity_bias,
			freshness_days=excluded.freshness_days,
			obscurity_min_score=excluded.obscurity_min_score,
			updated_at=excluded.updated_at;
	`
	if _, err := a.db.ExecContext(ctx, query, s.PopularityBias, s.FreshnessDays, s.ObscurityMinScore); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		popularity_bias INTEGER NOT NULL,
		freshness_days INTEGER NOT NULL,
		obscurity_min_score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	// databases created before the updated_at column existed
	if _, err := a.db.Exec("ALTER TABLE settings ADD COLUMN updated_at DATETIME"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	_, err := a.db.Exec(`
		INSERT OR IGNORE INTO settings (id, popularity_bias, freshness_days, obscurity_min_score)
		VALUES (1, ?, ?, ?)
	`, a.defaults.PopularityBias, a.defaults.FreshnessDays, a.defaults.ObscurityMinScore)
	return err
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
