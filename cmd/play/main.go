// Package main provides an interactive terminal client that plays one game
// directly against the turn engine.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/app"
	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/game/engine"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/gameserver"
	"github.com/cory-johannsen/delve/internal/observability"
	"github.com/cory-johannsen/delve/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty uses defaults")
	player := flag.String("player", "local", "save slot to load or create")
	name := flag.String("name", "Adventurer", "character name for a new game")
	class := flag.String("class", "fighter", "character class for a new game")
	seed := flag.Int64("seed", 0, "world seed for a new game")
	fresh := flag.Bool("new", false, "start a new game even if a save exists")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, os.Stdin, os.Stdout, session{
		player: *player, name: *name, class: *class, seed: *seed, fresh: *fresh,
	}); err != nil {
		logger.Fatal("play failed", zap.Error(err))
	}
}

type session struct {
	player, name, class string
	seed                int64
	fresh               bool
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg, err := config.Defaults()
		if err != nil {
			return config.Config{}, err
		}
		cfg.Logging.Level = "warn"
		cfg.Logging.Format = "console"
		return cfg, nil
	}
	return config.Load(path)
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, in io.Reader, out io.Writer, sess session) error {
	cat, err := app.ProvideCatalog(cfg, logger)
	if err != nil {
		return err
	}
	hooks, closeHooks, err := app.ProvideHooks(cfg, cat, logger)
	if err != nil {
		return err
	}
	defer closeHooks()
	eng := app.ProvideEngine(cfg, cat, hooks, app.ProvideNarrator(cfg, logger), logger)
	store, closeStore, err := app.ProvideStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	svc := gameserver.NewService(eng, store, logger)

	gs, err := svc.State(ctx, sess.player)
	switch {
	case err == nil && !sess.fresh:
		fmt.Fprintf(out, "Welcome back, %s.\n", gs.Name)
		printLines(out, engine.Sheet(gs, ""))
	case err == nil || errors.Is(err, storage.ErrNotFound):
		_, entry, err := svc.NewGame(ctx, sess.player, sess.name, sess.class, sess.seed)
		if err != nil {
			return err
		}
		printEntry(out, entry)
	default:
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		_, entry, err := svc.Turn(ctx, sess.player, line)
		if err != nil {
			return err
		}
		printEntry(out, entry)
	}
}

func printEntry(out io.Writer, e state.LogEntry) {
	fmt.Fprintln(out, e.Summary)
	if e.Flavor != "" {
		fmt.Fprintln(out, e.Flavor)
	}
}

func printLines(out io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
}
