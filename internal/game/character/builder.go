// Package character seeds a new game's starting state from a class archetype.
package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/progression"
	"github.com/cory-johannsen/delve/internal/game/state"
)

// BaseAbilityScore is the score of every ability a class does not set.
const BaseAbilityScore = 10

// ErrUnknownClass is returned when a class id matches no archetype.
var ErrUnknownClass = errors.New("character: unknown class")

// abilityScores starts every ability at BaseAbilityScore and applies the
// class's scores on top.
func abilityScores(class map[string]int) map[string]int {
	a := make(map[string]int, len(state.Abilities))
	for _, ab := range state.Abilities {
		a[ab] = BaseAbilityScore
	}
	for ab, score := range class {
		a[strings.ToLower(ab)] = score
	}
	return a
}

// Build constructs a level 1 character of the given class. The start scene
// is recorded but not entered; the caller enters it to apply its spawns.
// HP = max(1, class HP + constitution modifier).
//
// Precondition: name must be non-empty; cat must be non-nil.
// Postcondition: Returns a state that passes Validate, or an error wrapping
// ErrUnknownClass.
func Build(cat *catalog.Catalog, name, classID string, seed int64) (*state.GameState, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	class, ok := cat.Class(classID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, classID)
	}
	start, ok := cat.Scene(class.StartScene)
	if !ok {
		return nil, fmt.Errorf("class %q: unknown start scene %q", class.ID, class.StartScene)
	}

	s := &state.GameState{
		Name:           name,
		CharacterClass: class.ID,
		Level:          1,
		Gold:           class.Gold,
		Skills:         append([]string{}, class.Skills...),
		AbilityScores:  abilityScores(class.AbilityScores),
		KnownSpells:    append([]string{}, class.KnownSpells...),
		PreparedSpells: append([]string{}, class.PreparedSpells...),
		SpellSlots:     make(map[string]state.SpellSlot, len(class.SpellSlots)),
		Location:       start.Location,
		StorySceneID:   start.ID,
		WorldSeed:      seed,
	}
	s.MaxHP = class.HP + s.AbilityMod("constitution")
	if s.MaxHP < 1 {
		s.MaxHP = 1
	}
	s.HP = s.MaxHP
	for key, n := range class.SpellSlots {
		s.SpellSlots[key] = state.SpellSlot{Max: n, Current: n}
	}
	for _, st := range class.Inventory {
		info, ok := cat.Describe(st.Item)
		if !ok {
			return nil, fmt.Errorf("class %q: unknown starting item %q", class.ID, st.Item)
		}
		idx := inventory.Add(s, info, st.Quantity)
		if st.Equipped {
			inventory.Equip(s, idx)
		}
	}
	state.Backfill(s)
	inventory.RecomputeAC(s, cat)
	progression.Sync(cat, s)
	return s, nil
}

// AbilityName returns the short display label for an ability score key.
func AbilityName(ability string) string {
	names := map[string]string{
		"strength":     "STR",
		"dexterity":    "DEX",
		"constitution": "CON",
		"intelligence": "INT",
		"wisdom":       "WIS",
		"charisma":     "CHA",
	}
	if n, ok := names[ability]; ok {
		return n
	}
	return fmt.Sprintf("<%s>", ability)
}
