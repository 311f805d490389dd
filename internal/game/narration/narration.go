// Package narration classifies a resolved turn into a narration mode and
// shapes the request handed to the prose narrator.
package narration

import (
	"context"

	"github.com/cory-johannsen/delve/internal/game/turn"
)

// Rule maps a condition on a turn's outcome to a narration mode.
type Rule struct {
	Name string
	When func(o *turn.Outcome, sheet bool) bool
	// Mode returns the selected mode; most rules return a constant.
	Mode func(o *turn.Outcome) turn.Mode
}

func always(m turn.Mode) func(*turn.Outcome) turn.Mode {
	return func(*turn.Outcome) turn.Mode { return m }
}

// Rules is the narration priority ladder, highest first. The last rule always
// matches.
var Rules = []Rule{
	{Name: "sheet", When: func(_ *turn.Outcome, sheet bool) bool { return sheet }, Mode: always(turn.ModeSheet)},
	{Name: "override", When: func(o *turn.Outcome, _ bool) bool { return o.Override != "" }, Mode: func(o *turn.Outcome) turn.Mode { return o.Override }},
	{Name: "kill", When: func(o *turn.Outcome, _ bool) bool { return o.Kill }, Mode: always(turn.ModeCombatKill)},
	{Name: "hit", When: func(o *turn.Outcome, _ bool) bool { return o.Hit }, Mode: always(turn.ModeCombatHit)},
	{Name: "miss", When: func(o *turn.Outcome, _ bool) bool { return o.Miss }, Mode: always(turn.ModeCombatMiss)},
	{Name: "loot_found", When: func(o *turn.Outcome, _ bool) bool { return o.LootFound }, Mode: always(turn.ModeLootGain)},
	{Name: "search_found", When: func(o *turn.Outcome, _ bool) bool { return o.SearchFound }, Mode: always(turn.ModeSearchFound)},
	{Name: "investigate", When: func(o *turn.Outcome, _ bool) bool { return o.Investigated }, Mode: always(turn.ModeInvestigate)},
	{Name: "new_location", When: func(o *turn.Outcome, _ bool) bool { return o.NewLocation }, Mode: always(turn.ModeRoomIntro)},
	{Name: "search_empty", When: func(o *turn.Outcome, _ bool) bool {
		return (o.SearchAttempted || o.LootAttempted) && !o.LootFound && !o.SearchFound
	}, Mode: always(turn.ModeSearchEmpty)},
	{Name: "general", When: func(*turn.Outcome, bool) bool { return true }, Mode: always(turn.ModeGeneral)},
}

// Select returns the narration mode for a turn. sheet marks a character sheet
// check, which outranks everything.
func Select(o *turn.Outcome, sheet bool) turn.Mode {
	for _, r := range Rules {
		if r.When(o, sheet) {
			return r.Mode(o)
		}
	}
	return turn.ModeGeneral
}

// Request is what the prose narrator receives for one turn.
type Request struct {
	Mode        turn.Mode `json:"mode"`
	LocationKey string    `json:"locationKey"`
	BiomeKey    string    `json:"biomeKey"`
	EnemyName   string    `json:"enemyName,omitempty"`
	TookDamage  int       `json:"tookDamage"`
	DealtDamage int       `json:"dealtDamage"`
	ItemNames   []string  `json:"itemNames,omitempty"`
	Facts       []string  `json:"facts"`
}

// Narrator turns a Request into flavor prose. An empty string with a nil
// error means no flavor.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (string, error)
}

// NarratorFunc adapts a function to the Narrator interface.
type NarratorFunc func(ctx context.Context, req Request) (string, error)

// Narrate calls f.
func (f NarratorFunc) Narrate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Silent is a Narrator that never adds flavor.
var Silent Narrator = NarratorFunc(func(context.Context, Request) (string, error) { return "", nil })
