// Package combat resolves the player's combat actions and the monster's
// retaliation within a single turn.
//
// A turn runs PlayerTurn, then an optional MonsterTurn, then Cleanup. Every
// function here acts on the turn's working copy held by the Context.
package combat

import (
	"strings"

	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

const (
	// UnarmedName is the weapon name used for bare-handed attacks.
	UnarmedName = "Fists"
	// UnarmedDice is the damage dealt by a bare-handed hit.
	UnarmedDice = "1d2"
	// DefendACBonus is the temporary AC granted by defending.
	DefendACBonus = 4
)

// Hits reports whether an attack total meets or beats ac.
func Hits(total, ac int) bool { return total >= ac }

// ApplyDamage reduces e's HP by amount, flooring at zero, and marks it dead at zero.
//
// Precondition: amount >= 0; e is alive.
// Postcondition: 0 <= e.HP <= e.MaxHP; e.Status is dead iff e.HP == 0.
// Returns true if this damage killed the entity.
func ApplyDamage(e *state.Entity, amount int) bool {
	e.HP -= amount
	if e.HP < 0 {
		e.HP = 0
	}
	if e.HP == 0 {
		e.Status = state.StatusDead
		e.Effects = []state.Effect{}
		return true
	}
	return false
}

// DamagePlayer reduces the player's HP by amount, flooring at zero.
//
// Postcondition: 0 <= s.HP <= s.MaxHP.
func DamagePlayer(s *state.GameState, amount int) {
	s.HP -= amount
	if s.HP < 0 {
		s.HP = 0
	}
}

// HealPlayer raises the player's HP by amount, capped at MaxHP.
//
// Postcondition: returns the HP actually restored.
func HealPlayer(s *state.GameState, amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := s.HP
	s.HP += amount
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	return s.HP - before
}

// FindTarget returns the index of the living entity named by target. When no
// living entity's name contains target (or target is empty) the first living
// entity is chosen.
//
// Postcondition: ok is false iff no entity is alive.
func FindTarget(s *state.GameState, target string) (idx int, ok bool) {
	first := -1
	t := strings.ToLower(strings.TrimSpace(target))
	for i, e := range s.NearbyEntities {
		if !e.IsAlive() {
			continue
		}
		if first < 0 {
			first = i
		}
		if t != "" && strings.Contains(strings.ToLower(e.Name), t) {
			return i, true
		}
	}
	return first, first >= 0
}

// Defend raises the player's AC for the remainder of this turn.
func Defend(c *turn.Context, out *turn.Outcome) {
	c.State.TempACBonus = DefendACBonus
	out.Add("You brace yourself, gaining +%d AC until your next action.", DefendACBonus)
}

// Run abandons the fight, leaving every nearby entity behind.
//
// Postcondition: refused when nothing alive is nearby; otherwise
// NearbyEntities is empty and combat is inactive.
func Run(c *turn.Context, out *turn.Outcome) {
	s := c.State
	if s.LivingThreats() == 0 {
		out.Refuse("There is nothing here to run from.")
		return
	}
	s.NearbyEntities = []state.Entity{}
	s.IsCombatActive = false
	out.Add("You turn and flee, leaving your foes behind.")
}

// MonsterShouldAct reports whether a monster retaliates this turn: a living,
// unpinned entity remains and combat was already active or the player's
// action was an attack or defend.
func MonsterShouldAct(s *state.GameState, wasActive, combatAction bool) bool {
	if _, ok := nextActor(s); !ok {
		return false
	}
	return wasActive || combatAction
}

// StillActive reports whether combat remains active after the turn.
func StillActive(s *state.GameState, wasActive, combatAction bool) bool {
	return s.LivingThreats() > 0 && (wasActive || combatAction) && s.HP > 0
}

func nextActor(s *state.GameState) (int, bool) {
	for i, e := range s.NearbyEntities {
		if e.IsAlive() && !condition.IsPinned(e.Effects) {
			return i, true
		}
	}
	return -1, false
}
