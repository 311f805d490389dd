package condition

import "github.com/cory-johannsen/delve/internal/game/state"

// ACBonus returns the summed value of every ac_bonus effect.
func ACBonus(effects []state.Effect) int {
	return sumOf(effects, TypeACBonus)
}

// DamageBonus returns the summed value of every damage_bonus effect.
//
// Postcondition: Returns >= 0; negative bonuses are ignored.
func DamageBonus(effects []state.Effect) int {
	total := 0
	for _, e := range effects {
		if e.Type == TypeDamageBonus && e.Value > 0 {
			total += e.Value
		}
	}
	return total
}

// IsPinned reports whether any pin effect is present.
func IsPinned(effects []state.Effect) bool {
	for _, e := range effects {
		if e.Type == TypePin {
			return true
		}
	}
	return false
}

// EffectiveAC returns the player's armor class for incoming attacks this turn:
// base AC from gear, plus active ac_bonus effects, plus the combat-scoped bonus.
func EffectiveAC(s *state.GameState) int {
	return s.AC + ACBonus(s.ActiveEffects) + s.TempACBonus
}

func sumOf(effects []state.Effect, typ string) int {
	total := 0
	for _, e := range effects {
		if e.Type == typ {
			total += e.Value
		}
	}
	return total
}
