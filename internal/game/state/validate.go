package state

import (
	"errors"
	"fmt"
)

// Validate checks every structural invariant of the state.
//
// Postcondition: Returns nil iff vitals are in bounds, every item and entity is
// well formed, and at most one weapon, one body armor, and one shield are equipped.
func (s *GameState) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if s.MaxHP < 1 {
		fail("maxHp must be >= 1, got %d", s.MaxHP)
	}
	if s.HP < 0 || s.HP > s.MaxHP {
		fail("hp %d out of bounds [0, %d]", s.HP, s.MaxHP)
	}
	if s.Level < 1 {
		fail("level must be >= 1, got %d", s.Level)
	}
	if s.Gold < 0 {
		fail("gold must be >= 0, got %d", s.Gold)
	}
	if s.Copper < 0 || s.Copper >= CopperPerGold {
		fail("copper %d out of bounds [0, %d)", s.Copper, CopperPerGold)
	}
	if s.XP < 0 {
		fail("xp must be >= 0, got %d", s.XP)
	}
	if s.TurnCounter < 0 {
		fail("turnCounter must be >= 0, got %d", s.TurnCounter)
	}
	if s.Location == "" {
		fail("location must not be empty")
	}

	var weapons, armor, shields int
	for i, it := range s.Inventory {
		if it.Name == "" {
			fail("inventory[%d]: name must not be empty", i)
		}
		if !itemTypes[it.Type] {
			fail("inventory[%d] %q: unknown type %q", i, it.Name, it.Type)
		}
		if it.Quantity < 0 {
			fail("inventory[%d] %q: quantity must be >= 0", i, it.Name)
		}
		if !it.Equipped {
			continue
		}
		switch {
		case it.Type == ItemWeapon:
			weapons++
		case it.IsShield():
			shields++
		case it.Type == ItemArmor:
			armor++
		default:
			fail("inventory[%d] %q: type %q cannot be equipped", i, it.Name, it.Type)
		}
	}
	if weapons > 1 {
		fail("%d weapons equipped, at most one allowed", weapons)
	}
	if armor > 1 {
		fail("%d body armors equipped, at most one allowed", armor)
	}
	if shields > 1 {
		fail("%d shields equipped, at most one allowed", shields)
	}

	for i, e := range s.NearbyEntities {
		if !entityStatuses[e.Status] {
			fail("entity[%d] %q: unknown status %q", i, e.Name, e.Status)
			continue
		}
		if e.HP < 0 || e.HP > e.MaxHP {
			fail("entity[%d] %q: hp %d out of bounds [0, %d]", i, e.Name, e.HP, e.MaxHP)
		}
		if e.Status == StatusObject {
			continue
		}
		if (e.Status == StatusDead) != (e.HP == 0) {
			fail("entity[%d] %q: status %q inconsistent with hp %d", i, e.Name, e.Status, e.HP)
		}
	}

	for key, slot := range s.SpellSlots {
		if slot.Max < 0 || slot.Current < 0 || slot.Current > slot.Max {
			fail("spellSlots[%s]: current %d out of bounds [0, %d]", key, slot.Current, slot.Max)
		}
	}

	return errors.Join(errs...)
}
