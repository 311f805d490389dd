// Package turn holds the per-turn resolution context shared by every resolver
// and the outcome record they fill in.
package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/state"
)

// Mode is a narration classification tag.
type Mode string

const (
	ModeRoomIntro   Mode = "ROOM_INTRO"
	ModeCombatHit   Mode = "COMBAT_HIT"
	ModeCombatMiss  Mode = "COMBAT_MISS"
	ModeCombatKill  Mode = "COMBAT_KILL"
	ModeSearchFound Mode = "SEARCH_FOUND"
	ModeSearchEmpty Mode = "SEARCH_EMPTY"
	ModeLootGain    Mode = "LOOT_GAIN"
	ModeInvestigate Mode = "INVESTIGATE"
	ModeGeneral     Mode = "GENERAL"
	ModeSheet       Mode = "SHEET"
)

// Context carries everything a resolver may read or change during one turn.
//
// State is the turn's working copy; the previous state is never reachable
// from a Context.
type Context struct {
	State   *state.GameState
	Catalog *catalog.Catalog
	Dice    *dice.Roller
	Logger  *zap.Logger
}

// NewContext builds a Context whose dice draw from src.
//
// Precondition: every argument must be non-nil.
func NewContext(s *state.GameState, cat *catalog.Catalog, src dice.Source, logger *zap.Logger) *Context {
	return &Context{State: s, Catalog: cat, Dice: dice.NewLoggedRoller(src, logger), Logger: logger}
}

// Roll rolls a catalog dice expression.
//
// Postcondition: returns an error wrapping dice.ErrParse for malformed notation.
func (c *Context) Roll(expr string) (int, error) {
	r, err := c.Dice.RollExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("rolling %q: %w", expr, err)
	}
	return r.Total(), nil
}

// Outcome records what a turn did, for narration and for the log entry.
type Outcome struct {
	// Facts are the factual event strings, in order.
	Facts []string
	// Refused marks a game-rule refusal: the turn's mechanical changes are discarded.
	Refused bool
	// Override, when set, forces the narration mode below the sheet check.
	Override Mode

	Hit, Miss, Kill bool
	DealtDamage     int
	TookDamage      int
	EnemyName       string

	// LootAttempted is set when a corpse was searched; LootFound when it yielded something.
	LootAttempted bool
	LootFound     bool
	// SearchAttempted is set by any search; SearchFound when a search uncovered a reward.
	SearchAttempted bool
	SearchFound     bool
	ItemsGained     []string
	GoldGained      int
	// CopperGained is the value of all coins collected, in copper pieces.
	CopperGained int
	Investigated bool
	NewLocation  bool
	// XPEarned is experience from kills, awarded once after the player's action.
	XPEarned int
	// XPGained is experience actually awarded this turn.
	XPGained     int
	LevelsGained int
}

// Add appends a fact.
func (o *Outcome) Add(format string, args ...any) {
	o.Facts = append(o.Facts, fmt.Sprintf(format, args...))
}

// Refuse marks the outcome as a refusal with the given explanation.
//
// Postcondition: o.Refused is true and the explanation is the last fact.
func (o *Outcome) Refuse(format string, args ...any) {
	o.Refused = true
	o.Add(format, args...)
}
