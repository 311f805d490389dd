// Package condition manages timed effects on the player and on nearby entities.
//
// Effects live inside the persisted GameState as plain slices; the functions
// here never mutate their input slice and always return a fresh one.
package condition

import "github.com/cory-johannsen/delve/internal/game/state"

// Effect types understood by the resolvers.
const (
	// TypeACBonus adds Value to the bearer's armor class.
	TypeACBonus = "ac_bonus"
	// TypeDamageBonus adds Value to the bearer's weapon damage.
	TypeDamageBonus = "damage_bonus"
	// TypePin incapacitates the bearer; a pinned entity cannot act.
	TypePin = "pin"
)

// Apply adds e to effects. An effect with the same name is replaced, keeping the
// later expiry so a re-applied buff is never shortened.
//
// Postcondition: exactly one effect named e.Name is present in the result.
func Apply(effects []state.Effect, e state.Effect) []state.Effect {
	out := make([]state.Effect, 0, len(effects)+1)
	for _, existing := range effects {
		if existing.Name != e.Name {
			out = append(out, existing)
			continue
		}
		if existing.ExpiresAtTurn == 0 || (e.ExpiresAtTurn != 0 && existing.ExpiresAtTurn > e.ExpiresAtTurn) {
			e.ExpiresAtTurn = existing.ExpiresAtTurn
		}
	}
	return append(out, e)
}

// Remove returns effects without any effect named name.
func Remove(effects []state.Effect, name string) []state.Effect {
	out := make([]state.Effect, 0, len(effects))
	for _, e := range effects {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return out
}

// Until returns the ExpiresAtTurn value for an effect applied during turn that
// lasts duration turns, counting the current one.
//
// Precondition: duration >= 1.
func Until(turn, duration int) int {
	return turn + duration - 1
}

// Expired reports whether e has lapsed at turn.
func Expired(e state.Effect, turn int) bool {
	return e.ExpiresAtTurn > 0 && turn > e.ExpiresAtTurn
}

// Prune drops every effect that has lapsed at turn.
//
// Postcondition: no effect in the result satisfies Expired(e, turn); the
// relative order of survivors is preserved.
func Prune(effects []state.Effect, turn int) []state.Effect {
	out := make([]state.Effect, 0, len(effects))
	for _, e := range effects {
		if !Expired(e, turn) {
			out = append(out, e)
		}
	}
	return out
}

// PruneAll prunes the player's effects and every entity's effects in place on s.
//
// Precondition: s is the turn's working copy, never the caller's previous state.
func PruneAll(s *state.GameState) {
	s.ActiveEffects = Prune(s.ActiveEffects, s.TurnCounter)
	for i := range s.NearbyEntities {
		s.NearbyEntities[i].Effects = Prune(s.NearbyEntities[i].Effects, s.TurnCounter)
	}
}
