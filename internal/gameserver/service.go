// Package gameserver exposes the turn engine to remote clients: a Service
// that loads, resolves, and saves one player's game per call, and a gRPC
// TurnService over it.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/engine"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/storage"
)

// ErrInvalidArgument is returned for malformed requests.
var ErrInvalidArgument = errors.New("gameserver: invalid argument")

// Service runs turns against persisted games. Turns for the same player are
// serialized; different players proceed concurrently.
type Service struct {
	engine *engine.Engine
	store  storage.Store
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*playerLock
}

// playerLock serializes one player's calls. refs counts the callers holding
// or waiting on it; the entry is dropped when it reaches zero.
type playerLock struct {
	mu   sync.Mutex
	refs int
}

// NewService creates a Service.
//
// Precondition: eng, store, and logger must be non-nil.
func NewService(eng *engine.Engine, store storage.Store, logger *zap.Logger) *Service {
	return &Service{
		engine: eng,
		store:  store,
		logger: logger,
		locks:  make(map[string]*playerLock),
	}
}

// lock acquires playerID's lock and returns its release.
//
// Postcondition: after every release, locks holds only players with a call in flight.
func (s *Service) lock(playerID string) func() {
	s.mu.Lock()
	l, ok := s.locks[playerID]
	if !ok {
		l = &playerLock{}
		s.locks[playerID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, playerID)
		}
		s.mu.Unlock()
	}
}

// NewGame creates a character and stores its opening state, replacing any
// existing save for playerID.
//
// Precondition: playerID and name must be non-empty.
// Postcondition: on success the returned state is the stored save.
func (s *Service) NewGame(ctx context.Context, playerID, name, classID string, seed int64) (*state.GameState, state.LogEntry, error) {
	if playerID == "" || name == "" {
		return nil, state.LogEntry{}, fmt.Errorf("%w: player id and name are required", ErrInvalidArgument)
	}
	defer s.lock(playerID)()

	gs, entry, err := s.engine.NewGame(ctx, name, classID, seed)
	if err != nil {
		return nil, state.LogEntry{}, err
	}
	if err := s.store.Save(ctx, playerID, gs); err != nil {
		return nil, state.LogEntry{}, err
	}
	s.logger.Info("new game",
		zap.String("player", playerID),
		zap.String("class", gs.CharacterClass),
		zap.String("location", gs.Location),
	)
	return gs, entry, nil
}

// Turn loads the player's game, resolves input, and saves the result.
//
// Postcondition: the stored save is replaced only when resolution and
// serialization both succeed.
func (s *Service) Turn(ctx context.Context, playerID, input string) (*state.GameState, state.LogEntry, error) {
	if playerID == "" {
		return nil, state.LogEntry{}, fmt.Errorf("%w: player id is required", ErrInvalidArgument)
	}
	defer s.lock(playerID)()

	start := time.Now()
	prev, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, state.LogEntry{}, err
	}
	next, entry, err := s.engine.ResolveTurn(ctx, prev, input)
	if err != nil {
		s.logger.Error("turn failed",
			zap.String("player", playerID),
			zap.Int("turn", prev.TurnCounter+1),
			zap.Error(err),
		)
		return nil, state.LogEntry{}, err
	}
	if err := s.store.Save(ctx, playerID, next); err != nil {
		return nil, state.LogEntry{}, err
	}
	s.logger.Debug("turn saved",
		zap.String("player", playerID),
		zap.Int("turn", next.TurnCounter),
		zap.Duration("elapsed", time.Since(start)),
	)
	return next, entry, nil
}

// State returns the player's current save.
func (s *Service) State(ctx context.Context, playerID string) (*state.GameState, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidArgument)
	}
	return s.store.Load(ctx, playerID)
}
