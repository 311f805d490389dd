package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/storage"
)

// SaveRepository persists one game state per player as JSONB.
type SaveRepository struct {
	db    *pgxpool.Pool
	owned bool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Load returns the player's saved state.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when no row
// exists, or state.ErrIncompatibleSave when the row fails to hydrate.
func (r *SaveRepository) Load(ctx context.Context, playerID string) (*state.GameState, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT state FROM saves WHERE player_id = $1`, playerID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("player %q: %w", playerID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("loading save: %w", err)
	}
	return state.Hydrate(data)
}

// Save upserts the player's state.
//
// Precondition: playerID must be non-empty; s must be non-nil.
func (r *SaveRepository) Save(ctx context.Context, playerID string, s *state.GameState) error {
	if playerID == "" {
		return errors.New("player id must not be empty")
	}
	data, err := state.Serialize(s)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO saves (player_id, state, turn, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (player_id)
		DO UPDATE SET state = EXCLUDED.state, turn = EXCLUDED.turn, updated_at = NOW()`,
		playerID, data, s.TurnCounter,
	)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SaveRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close closes the pool when the repository was created by Open.
func (r *SaveRepository) Close() error {
	if r.owned {
		r.db.Close()
	}
	return nil
}
