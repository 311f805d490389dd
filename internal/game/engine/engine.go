// Package engine sequences one game turn: parse the action, resolve it
// against a working copy of the previous state, let monsters retaliate,
// award progression and scene rewards, select a narration mode, and assemble
// the new state and its log entry.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/intent"
	"github.com/cory-johannsen/delve/internal/game/narration"
	"github.com/cory-johannsen/delve/internal/game/scene"
	"github.com/cory-johannsen/delve/internal/game/state"
)

// DefaultLogWindow is the number of trailing log entries kept in a state.
const DefaultLogWindow = 50

// ArtProvider ensures scene art exists for a cache key. Failures are
// tolerated by the engine.
type ArtProvider interface {
	Ensure(ctx context.Context, key string) error
}

// SourceFactory returns the dice source for the turn resolved from prev.
type SourceFactory func(prev *state.GameState) dice.Source

// CryptoSources draws every turn's dice from crypto/rand.
func CryptoSources() SourceFactory {
	return func(*state.GameState) dice.Source { return dice.NewCryptoSource() }
}

// SeededSources derives each turn's source from seed, the save's world seed,
// and its turn counter, so replaying a turn from the same state replays its
// rolls.
func SeededSources(seed int64) SourceFactory {
	return func(prev *state.GameState) dice.Source {
		return dice.NewSeededSource(seed ^ (prev.WorldSeed * 1_000_003) ^ int64(prev.TurnCounter))
	}
}

// Engine resolves turns against a read-only catalog. An Engine is safe for
// concurrent use by different players; each turn owns its working state.
type Engine struct {
	catalog   *catalog.Catalog
	parser    *intent.Parser
	scenes    *scene.Manager
	hooks     scene.Hooks
	narrator  narration.Narrator
	art       ArtProvider
	logger    *zap.Logger
	tracer    trace.Tracer
	sources   SourceFactory
	ids       func() string
	now       func() time.Time
	logWindow int
	history   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithNarrator sets the prose narrator. The default adds no flavor.
func WithNarrator(n narration.Narrator) Option { return func(e *Engine) { e.narrator = n } }

// WithArt sets the scene art provider. The default does nothing.
func WithArt(a ArtProvider) Option { return func(e *Engine) { e.art = a } }

// WithHooks sets the scene scripting hooks.
func WithHooks(h scene.Hooks) Option { return func(e *Engine) { e.hooks = h } }

// WithSources sets the per-turn dice source factory. The default is CryptoSources.
func WithSources(f SourceFactory) Option { return func(e *Engine) { e.sources = f } }

// WithIDs sets the log entry id generator. The default is uuid.NewString.
func WithIDs(f func() string) Option { return func(e *Engine) { e.ids = f } }

// WithClock sets the log entry clock. The default is time.Now.
func WithClock(f func() time.Time) Option { return func(e *Engine) { e.now = f } }

// WithLogWindow bounds the state's trailing log.
func WithLogWindow(n int) Option { return func(e *Engine) { e.logWindow = n } }

// WithHistoryWindow bounds the state's trailing location history.
func WithHistoryWindow(n int) Option { return func(e *Engine) { e.history = n } }

// WithTracer sets the tracer used for per-turn spans.
func WithTracer(t trace.Tracer) Option { return func(e *Engine) { e.tracer = t } }

// New creates an Engine.
//
// Precondition: cat and logger must be non-nil.
// Postcondition: Returns an Engine with defaults for every unset option.
func New(cat *catalog.Catalog, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		parser:   intent.NewParser(cat),
		narrator: narration.Silent,
		art:      noArt{},
		logger:   logger,
		tracer:   otel.Tracer("github.com/cory-johannsen/delve/internal/game/engine"),
		sources:  CryptoSources(),
		ids:      uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logWindow <= 0 {
		e.logWindow = DefaultLogWindow
	}
	e.scenes = scene.NewManager(e.hooks, e.history)
	return e
}

// Catalog returns the engine's reference data.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

type noArt struct{}

func (noArt) Ensure(context.Context, string) error { return nil }
