// Package sqlite provides an embedded single-file save store over modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a storage.Store backed by a SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite store at path and applies its
// migrations.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// migrateUp applies the embedded migrations. The migrator is not closed
// because closing it would close db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Load implements storage.Store.
func (s *Store) Load(ctx context.Context, playerID string) (*state.GameState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM saves WHERE player_id = ?`, playerID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %q: %w", playerID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("loading save: %w", err)
	}
	return state.Hydrate(data)
}

// Save implements storage.Store.
//
// Precondition: playerID must be non-empty; gs must be non-nil.
func (s *Store) Save(ctx context.Context, playerID string, gs *state.GameState) error {
	if playerID == "" {
		return errors.New("player id must not be empty")
	}
	data, err := state.Serialize(gs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (player_id, state, turn, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			state = excluded.state, turn = excluded.turn, updated_at = excluded.updated_at`,
		playerID, data, gs.TurnCounter, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Ping reports whether the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
