// Package spell resolves spellcasting: validation against the caster's known
// and prepared spells, slot consumption, and the spell's effect.
package spell

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// SlotKey is the spell slot every leveled spell draws from.
const SlotKey = "1"

// DefaultKeyAbility is the spellcasting ability when the class names none.
const DefaultKeyAbility = "intelligence"

// SaveDC returns the difficulty class for saves against the caster's spells.
//
// Postcondition: Returns 8 + proficiency bonus + key ability modifier.
func SaveDC(s *state.GameState, keyAbility string) int {
	return 8 + s.ProficiencyBonus() + s.AbilityMod(keyAbility)
}

// AttackBonus returns the caster's spell attack modifier.
func AttackBonus(s *state.GameState, keyAbility string) int {
	return s.ProficiencyBonus() + s.AbilityMod(keyAbility)
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func keyAbility(c *turn.Context) string {
	if cl, ok := c.Catalog.Class(c.State.CharacterClass); ok && cl.KeyAbility != "" {
		return cl.KeyAbility
	}
	return DefaultKeyAbility
}

// Cast resolves casting ability at target.
//
// Postcondition: refused with no state change when the spell is unknown,
// unprepared, out of slots, or needs a target that is not there. An
// unmodeled spell is a narrated no-op that spends nothing. Returns an error
// only for malformed dice or an unknown monster.
func Cast(c *turn.Context, ability, target string, out *turn.Outcome) error {
	s := c.State
	name := strings.TrimSpace(ability)
	if name == "" {
		out.Refuse("Cast what?")
		return nil
	}
	def, inCatalog := c.Catalog.Spell(name)
	if inCatalog {
		name = def.Name
	}
	if !contains(s.KnownSpells, name) {
		out.Refuse("You don't know the spell %s.", name)
		return nil
	}
	if !inCatalog {
		out.Add("You cast %s, but nothing obvious happens.", name)
		return nil
	}

	if !def.IsCantrip() {
		if !contains(s.PreparedSpells, def.Name) {
			out.Refuse("You haven't prepared %s.", def.Name)
			return nil
		}
		if s.SpellSlots[SlotKey].Current < 1 {
			out.Refuse("You have no spell slots left to cast %s.", def.Name)
			return nil
		}
	}

	eff, modeled := effectFor(def)
	if !modeled {
		out.Add("You cast %s, but nothing obvious happens.", def.Name)
		return nil
	}
	idx := -1
	if eff.needsTarget() {
		var ok bool
		if idx, ok = combat.FindTarget(s, target); !ok {
			out.Refuse("There is no target for %s.", def.Name)
			return nil
		}
		out.EnemyName = s.NearbyEntities[idx].Name
	}
	if !def.IsCantrip() {
		slot := s.SpellSlots[SlotKey]
		slot.Current--
		s.SpellSlots[SlotKey] = slot
	}
	return eff.apply(c, def, idx, out)
}

// effect is one resolved spell behavior.
type effect interface {
	needsTarget() bool
	apply(c *turn.Context, def *catalog.SpellDef, target int, out *turn.Outcome) error
}

func effectFor(def *catalog.SpellDef) (effect, bool) {
	if def.Mechanics != nil {
		return mechanicsEffect{m: def.Mechanics}, true
	}
	if l, ok := legacy[catalog.Key(def.Name)]; ok {
		return l, true
	}
	return nil, false
}

// damageTarget applies dmg to the entity at idx and records the hit.
func damageTarget(c *turn.Context, idx, dmg int, out *turn.Outcome) error {
	if dmg < 0 {
		dmg = 0
	}
	out.Hit = true
	out.DealtDamage += dmg
	return combat.Slay(c, idx, dmg, out)
}

func rollFor(c *turn.Context, spell, expr string) (int, error) {
	n, err := c.Roll(expr)
	if err != nil {
		return 0, fmt.Errorf("spell %q: %w", spell, err)
	}
	return n, nil
}
