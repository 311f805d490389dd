package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/state"
)

// Sheet sections.
const (
	SectionInventory = "inventory"
	SectionSpells    = "spells"
)

// Sheet returns the character sheet facts for section, or the whole sheet
// when section is empty. It reads s and never changes it.
func Sheet(s *state.GameState, section string) []string {
	switch section {
	case SectionInventory:
		return []string{inventoryLine(s), "Purse: " + purse(s) + "."}
	case SectionSpells:
		return spellLines(s)
	}
	facts := []string{
		fmt.Sprintf("%s the %s, level %d.", displayName(s), s.CharacterClass, s.Level),
		vitalsLine(s),
		abilityLine(s),
	}
	if len(s.Skills) > 0 {
		facts = append(facts, "Skills: "+strings.Join(s.Skills, ", ")+".")
	}
	facts = append(facts, inventoryLine(s))
	if len(s.KnownSpells) > 0 {
		facts = append(facts, spellLines(s)...)
	}
	if len(s.ActiveEffects) > 0 {
		names := make([]string, 0, len(s.ActiveEffects))
		for _, ef := range s.ActiveEffects {
			names = append(names, ef.Name)
		}
		facts = append(facts, "Active effects: "+strings.Join(names, ", ")+".")
	}
	return facts
}

func displayName(s *state.GameState) string {
	if s.Name == "" {
		return "You"
	}
	return s.Name
}

func vitalsLine(s *state.GameState) string {
	xp := fmt.Sprintf("XP %d", s.XP)
	if s.XPToNext > 0 {
		xp = fmt.Sprintf("XP %d/%d", s.XP, s.XPToNext)
	}
	return fmt.Sprintf("HP %d/%d, AC %d, %s, %s.", s.HP, s.MaxHP, condition.EffectiveAC(s), xp, purse(s))
}

func purse(s *state.GameState) string {
	if s.Copper == 0 {
		return fmt.Sprintf("%d gold", s.Gold)
	}
	return fmt.Sprintf("%d gold, %d copper", s.Gold, s.Copper)
}

func abilityLine(s *state.GameState) string {
	parts := make([]string, 0, len(state.Abilities))
	for _, ab := range state.Abilities {
		parts = append(parts, fmt.Sprintf("%s %d (%+d)", character.AbilityName(ab), s.AbilityScores[ab], s.AbilityMod(ab)))
	}
	return strings.Join(parts, ", ") + "."
}

func inventoryLine(s *state.GameState) string {
	if len(s.Inventory) == 0 {
		return "Inventory: empty."
	}
	parts := make([]string, 0, len(s.Inventory))
	for _, it := range s.Inventory {
		p := it.Name
		if it.Quantity > 1 {
			p = fmt.Sprintf("%s ×%d", it.Name, it.Quantity)
		}
		if it.Equipped {
			p += " (equipped)"
		}
		parts = append(parts, p)
	}
	return "Inventory: " + strings.Join(parts, ", ") + "."
}

func spellLines(s *state.GameState) []string {
	if len(s.KnownSpells) == 0 {
		return []string{"You know no spells."}
	}
	lines := []string{
		"Known spells: " + strings.Join(s.KnownSpells, ", ") + ".",
	}
	if len(s.PreparedSpells) > 0 {
		lines = append(lines, "Prepared: "+strings.Join(s.PreparedSpells, ", ")+".")
	}
	keys := make([]string, 0, len(s.SpellSlots))
	for k := range s.SpellSlots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		slot := s.SpellSlots[k]
		lines = append(lines, fmt.Sprintf("Level %s slots: %d/%d.", k, slot.Current, slot.Max))
	}
	return lines
}
