package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/economy"
	"github.com/cory-johannsen/delve/internal/game/intent"
	"github.com/cory-johannsen/delve/internal/game/narration"
	"github.com/cory-johannsen/delve/internal/game/progression"
	"github.com/cory-johannsen/delve/internal/game/scene"
	"github.com/cory-johannsen/delve/internal/game/spell"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/stunt"
	"github.com/cory-johannsen/delve/internal/game/turn"
	"github.com/cory-johannsen/delve/internal/observability"
)

// NothingChanged is the summary of a look that repeats the previous turn's facts.
const NothingChanged = "Nothing has changed."

// ErrNoState is returned when ResolveTurn is given no previous state.
var ErrNoState = errors.New("engine: no previous state")

// ResolveTurn resolves one player action against prev.
//
// prev is never modified. A game-rule refusal is not an error: the returned
// state keeps prev's mechanical state, advancing only the turn counter and
// the log.
//
// Precondition: prev passed state.Validate (Hydrate guarantees this).
// Postcondition: the returned state passes Validate and its last log entry is
// the returned entry. Returns an error only for broken reference data or a
// malformed dice expression; prev remains the caller's valid state then.
func (e *Engine) ResolveTurn(ctx context.Context, prev *state.GameState, raw string) (*state.GameState, state.LogEntry, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ResolveTurn")
	defer span.End()
	log := observability.WithTrace(ctx, e.logger)
	if prev == nil {
		return nil, state.LogEntry{}, ErrNoState
	}

	action := e.parser.Parse(raw, prev.KnownSpells)
	work := prev.Clone()
	state.Backfill(work)
	c := turn.NewContext(work, e.catalog, e.sources(prev), e.logger)

	work.TurnCounter++
	work.TempACBonus = 0
	condition.PruneAll(work)

	var out turn.Outcome
	sheet := action.Kind == intent.KindCheckSheet
	var err error
	switch {
	case sheet:
		out.Facts = Sheet(work, action.Section)
	case work.HP == 0:
		out.Refuse("You have fallen. Only your character sheet remains to be read.")
	default:
		err = e.play(c, prev.IsCombatActive, action, &out)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, state.LogEntry{}, fmt.Errorf("turn %d (%q): %w", prev.TurnCounter+1, action.Raw, err)
	}

	next := work
	if out.Refused || sheet {
		// The working copy is discarded; nothing mechanical happened.
		next = prev.Clone()
		state.Backfill(next)
		next.TurnCounter = work.TurnCounter
		next.TempACBonus = 0
		condition.PruneAll(next)
	}
	next.LastRolls = c.Dice.Totals()

	summary := strings.Join(out.Facts, " ")
	mode := narration.Select(&out, sheet)
	repeat := action.Kind == intent.KindLook && summary == prev.LastActionSummary
	next.LastActionSummary = summary

	sc, inScene := scene.Current(e.catalog, next)
	if inScene && !out.Refused && (out.NewLocation || action.Kind == intent.KindLook) {
		if err := e.art.Ensure(ctx, scene.Describe(next, sc).ArtKey); err != nil {
			log.Warn("scene art unavailable", zap.String("location", next.Location), zap.Error(err))
		}
	}

	entry := state.LogEntry{
		ID:        e.ids(),
		Mode:      string(mode),
		Summary:   summary,
		CreatedAt: e.now(),
	}
	if repeat {
		entry.Summary = NothingChanged
	} else {
		entry.Flavor = e.narrate(ctx, next, sc, mode, &out)
	}
	next.Log = append(next.Log, entry)
	if over := len(next.Log) - e.logWindow; over > 0 {
		next.Log = append([]state.LogEntry(nil), next.Log[over:]...)
	}

	if err := next.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invariant violation")
		return nil, state.LogEntry{}, fmt.Errorf("turn %d left an invalid state: %w", next.TurnCounter, err)
	}

	span.SetAttributes(
		attribute.Int("turn", next.TurnCounter),
		attribute.String("action", string(action.Kind)),
		attribute.String("mode", entry.Mode),
		attribute.Bool("refused", out.Refused),
	)
	log.Info("turn resolved",
		zap.Int("turn", next.TurnCounter),
		zap.String("action", string(action.Kind)),
		zap.String("rule", action.Rule),
		zap.String("mode", entry.Mode),
		zap.Bool("refused", out.Refused),
		zap.Int("hp", next.HP),
		zap.String("location", next.Location),
	)
	return next, entry, nil
}

// play runs the player's action and, unless it was refused, the monster turn
// and the cleanup that follows it.
func (e *Engine) play(c *turn.Context, wasActive bool, a intent.Action, out *turn.Outcome) error {
	s := c.State
	if err := e.dispatch(c, a, out); err != nil {
		return err
	}
	if out.Refused {
		return nil
	}
	if out.XPEarned > 0 {
		progression.Award(c, out.XPEarned, out)
	}
	combatAction := a.IsCombat()
	if combat.MonsterShouldAct(s, wasActive, combatAction) {
		if err := combat.MonsterTurn(c, out); err != nil {
			return err
		}
	}
	if _, err := scene.Complete(c, out); err != nil {
		return err
	}
	s.IsCombatActive = combat.StillActive(s, wasActive, combatAction)
	return nil
}

// dispatch resolves the player's half of the turn by action kind.
func (e *Engine) dispatch(c *turn.Context, a intent.Action, out *turn.Outcome) error {
	switch a.Kind {
	case intent.KindLook:
		scene.Look(c, a.Target, out)
	case intent.KindRun:
		combat.Run(c, out)
	case intent.KindDefend:
		combat.Defend(c, out)
	case intent.KindUse:
		matched, err := e.scenes.Travel(c, a.Raw, out)
		if err != nil || matched {
			return err
		}
		return combat.UseItem(c, a.Item, out)
	case intent.KindSearch:
		return economy.Search(c, a.Target, out)
	case intent.KindMove:
		matched, err := e.scenes.Travel(c, a.Raw, out)
		if err != nil || matched {
			return err
		}
		out.Refuse("You can't go that way from here.")
	case intent.KindCast:
		return spell.Cast(c, a.Ability, a.Target, out)
	case intent.KindAttack:
		return combat.Attack(c, a.Weapon, a.Target, out)
	case intent.KindStunt:
		stunt.Resolve(c, *a.Stunt, a.Target, out)
	case intent.KindTrade:
		trade(c, a.Trade, out)
	default:
		if a.Raw == "" {
			out.Refuse("You hesitate.")
			return nil
		}
		matched, err := e.scenes.Travel(c, a.Raw, out)
		if err != nil || matched {
			return err
		}
		out.Add("Nothing comes of %q.", a.Raw)
	}
	return nil
}

func trade(c *turn.Context, t *intent.Trade, out *turn.Outcome) {
	switch t.Kind {
	case intent.TradeBuy:
		economy.Buy(c, t.Item, out)
	case intent.TradeSell:
		economy.Sell(c, t.Item, out)
	default:
		economy.OpenShop(c, out)
	}
}
