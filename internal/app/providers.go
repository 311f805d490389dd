// Package app holds the providers that assemble a delve process from its
// configuration. cmd/gameserver wires them with google/wire; cmd/play calls
// them directly.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/engine"
	"github.com/cory-johannsen/delve/internal/game/narration"
	"github.com/cory-johannsen/delve/internal/game/scene"
	"github.com/cory-johannsen/delve/internal/gameserver"
	"github.com/cory-johannsen/delve/internal/narrator"
	"github.com/cory-johannsen/delve/internal/scripting"
	"github.com/cory-johannsen/delve/internal/storage"
	"github.com/cory-johannsen/delve/internal/storage/postgres"
	"github.com/cory-johannsen/delve/internal/storage/sqlite"
)

// EngineSet provides a fully configured turn engine.
var EngineSet = wire.NewSet(
	ProvideCatalog,
	ProvideHooks,
	ProvideNarrator,
	ProvideEngine,
)

// ServerSet provides everything the gRPC game server needs.
var ServerSet = wire.NewSet(
	EngineSet,
	ProvideStore,
	gameserver.NewService,
	gameserver.NewGRPCServer,
	wire.Struct(new(Server), "*"),
)

// Server is the assembled game server: the gRPC turn API and the store
// behind it.
type Server struct {
	Turns *gameserver.GRPCServer
	Store storage.Store
}

// ProvideCatalog loads and validates the reference data.
func ProvideCatalog(cfg config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	start := time.Now()
	cat, err := catalog.Load(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading content from %q: %w", cfg.Content.Dir, err)
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("scenes", len(cat.Scenes())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}

// ProvideHooks loads every scene script. Scripting is disabled, and the
// returned Hooks nil, when content.script_dir is empty.
func ProvideHooks(cfg config.Config, cat *catalog.Catalog, logger *zap.Logger) (scene.Hooks, func(), error) {
	if cfg.Content.ScriptDir == "" {
		logger.Info("scene scripting disabled")
		return nil, func() {}, nil
	}
	mgr := scripting.NewManager(logger)
	if err := mgr.LoadCatalog(cat, cfg.Content.ScriptDir, cfg.Content.InstructionLimit); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	return mgr, mgr.Close, nil
}

// ProvideNarrator selects the narrator from configuration.
func ProvideNarrator(cfg config.Config, logger *zap.Logger) narration.Narrator {
	return narrator.FromConfig(cfg.Narrator, logger)
}

// ProvideEngine builds the turn engine. A non-zero engine.seed makes every
// turn's dice reproducible.
func ProvideEngine(cfg config.Config, cat *catalog.Catalog, hooks scene.Hooks, n narration.Narrator, logger *zap.Logger) *engine.Engine {
	sources := engine.CryptoSources()
	if cfg.Engine.Seed != 0 {
		sources = engine.SeededSources(cfg.Engine.Seed)
	}
	return engine.New(cat, logger,
		engine.WithHooks(hooks),
		engine.WithNarrator(n),
		engine.WithSources(sources),
		engine.WithLogWindow(cfg.Engine.LogWindow),
		engine.WithHistoryWindow(cfg.Engine.HistoryWindow),
	)
}

// ProvideStore opens the save store named by storage.driver.
//
// Postcondition: the cleanup closes the store and any pool behind it.
func ProvideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite store opened", zap.String("path", cfg.Storage.SQLitePath))
		return st, func() { _ = st.Close() }, nil
	case config.DriverPostgres:
		start := time.Now()
		repo, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(start)),
		)
		return repo, func() { _ = repo.Close() }, nil
	default:
		logger.Warn("using in-memory store; saves are lost on exit")
		st := storage.NewMemory()
		return st, func() {}, nil
	}
}
