package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/narration"
	"github.com/cory-johannsen/delve/internal/game/scene"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// NewGame seeds a state from a class archetype and enters its start scene.
//
// Precondition: name must be non-empty.
// Postcondition: the returned state passes Validate, has TurnCounter 0, and
// its log holds the returned ROOM_INTRO entry. Returns an error wrapping
// character.ErrUnknownClass for an unknown class.
func (e *Engine) NewGame(ctx context.Context, name, classID string, seed int64) (*state.GameState, state.LogEntry, error) {
	ctx, span := e.tracer.Start(ctx, "engine.NewGame")
	defer span.End()

	s, err := character.Build(e.catalog, name, classID, seed)
	if err != nil {
		return nil, state.LogEntry{}, err
	}
	start, _ := e.catalog.Scene(s.StorySceneID)
	c := turn.NewContext(s, e.catalog, e.sources(s), e.logger)
	var out turn.Outcome
	if err := e.scenes.Enter(c, start, &out); err != nil {
		return nil, state.LogEntry{}, err
	}
	if err := e.art.Ensure(ctx, scene.Describe(s, start).ArtKey); err != nil {
		e.logger.Warn("scene art unavailable", zap.String("location", s.Location), zap.Error(err))
	}
	s.LastRolls = c.Dice.Totals()
	s.LastActionSummary = strings.Join(out.Facts, " ")
	mode := narration.Select(&out, false)
	entry := state.LogEntry{
		ID:        e.ids(),
		Mode:      string(mode),
		Summary:   s.LastActionSummary,
		Flavor:    e.narrate(ctx, s, start, mode, &out),
		CreatedAt: e.now(),
	}
	s.Log = append(s.Log, entry)
	e.logger.Info("new game",
		zap.String("class", s.CharacterClass),
		zap.Int64("seed", seed),
		zap.String("location", s.Location),
	)
	return s, entry, nil
}
