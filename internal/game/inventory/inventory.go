// Package inventory manipulates the player's item stacks and equipment slots.
//
// Every function operates on the turn's working copy of the state; callers must
// never pass the previous turn's state.
package inventory

import (
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/state"
)

// Slot identifies an equipment slot.
type Slot string

const (
	// SlotNone is returned for items that cannot be equipped.
	SlotNone Slot = ""
	// SlotWeapon holds the one wielded weapon.
	SlotWeapon Slot = "weapon"
	// SlotBody holds the one worn body armor.
	SlotBody Slot = "body"
	// SlotShield holds the one carried shield.
	SlotShield Slot = "shield"
)

// UnarmoredAC is the base armor class without body armor.
const UnarmoredAC = 10

// SlotOf returns the equipment slot an item occupies when equipped.
func SlotOf(it state.Item) Slot {
	switch {
	case it.Type == state.ItemWeapon:
		return SlotWeapon
	case it.IsShield():
		return SlotShield
	case it.Type == state.ItemArmor:
		return SlotBody
	default:
		return SlotNone
	}
}

// Find returns the index of the first stack whose name or id matches key,
// ignoring case.
//
// Postcondition: ok is false iff no stack matches.
func Find(s *state.GameState, key string) (idx int, ok bool) {
	k := catalog.Key(key)
	if k == "" {
		return -1, false
	}
	for i, it := range s.Inventory {
		if catalog.Key(it.Name) == k || catalog.Key(it.ID) == k {
			return i, true
		}
	}
	return -1, false
}

// FindMentioned returns the index of the first stack whose name appears in text.
// Longer names win so "healing potion" beats "potion".
func FindMentioned(s *state.GameState, text string) (idx int, ok bool) {
	lower := strings.ToLower(text)
	best, bestLen := -1, 0
	for i, it := range s.Inventory {
		name := strings.ToLower(it.Name)
		if name != "" && strings.Contains(lower, name) && len(name) > bestLen {
			best, bestLen = i, len(name)
		}
	}
	return best, best >= 0
}

// Has reports whether the player holds at least one of key.
func Has(s *state.GameState, key string) bool {
	i, ok := Find(s, key)
	return ok && s.Inventory[i].Quantity > 0
}

// Add places qty units of info into the inventory, merging with an existing stack.
//
// Precondition: qty > 0.
// Postcondition: returns the index of the stack holding the item.
func Add(s *state.GameState, info catalog.ItemInfo, qty int) int {
	if i, ok := Find(s, info.ID); ok {
		s.Inventory[i].Quantity += qty
		return i
	}
	s.Inventory = append(s.Inventory, state.Item{
		ID:       info.ID,
		Name:     info.Name,
		Type:     info.Type,
		Quantity: qty,
	})
	return len(s.Inventory) - 1
}

// Remove takes qty units of key out of the inventory, dropping the stack at zero.
//
// Precondition: qty > 0.
// Postcondition: returns false, leaving the inventory unchanged, when fewer than
// qty units are held.
func Remove(s *state.GameState, key string, qty int) bool {
	i, ok := Find(s, key)
	if !ok || s.Inventory[i].Quantity < qty {
		return false
	}
	s.Inventory[i].Quantity -= qty
	if s.Inventory[i].Quantity == 0 {
		s.Inventory = append(s.Inventory[:i:i], s.Inventory[i+1:]...)
	}
	return true
}

// Equip equips the stack at idx, unequipping whatever occupied the same slot.
//
// Postcondition: returns false for items that have no slot; otherwise the
// stack at idx is the only equipped item in its slot.
func Equip(s *state.GameState, idx int) bool {
	slot := SlotOf(s.Inventory[idx])
	if slot == SlotNone {
		return false
	}
	for i := range s.Inventory {
		if i != idx && s.Inventory[i].Equipped && SlotOf(s.Inventory[i]) == slot {
			s.Inventory[i].Equipped = false
		}
	}
	s.Inventory[idx].Equipped = true
	return true
}

// Equipped returns the item equipped in slot.
func Equipped(s *state.GameState, slot Slot) (state.Item, bool) {
	for _, it := range s.Inventory {
		if it.Equipped && it.Quantity > 0 && SlotOf(it) == slot {
			return it, true
		}
	}
	return state.Item{}, false
}

// ArmorClass returns the base armor class granted by equipped gear: body armor
// AC (or UnarmoredAC) plus the shield bonus. Unknown armor counts as nothing.
func ArmorClass(s *state.GameState, cat *catalog.Catalog) int {
	ac := UnarmoredAC
	if body, ok := Equipped(s, SlotBody); ok {
		if def, ok := cat.Armor(body.ID); ok {
			ac = def.AC
		} else if def, ok := cat.Armor(body.Name); ok {
			ac = def.AC
		}
	}
	if sh, ok := Equipped(s, SlotShield); ok {
		if def, ok := cat.Armor(sh.ID); ok {
			ac += def.AC
		} else if def, ok := cat.Armor(sh.Name); ok {
			ac += def.AC
		}
	}
	return ac
}

// RecomputeAC stores ArmorClass(s, cat) as the state's base AC.
func RecomputeAC(s *state.GameState, cat *catalog.Catalog) {
	s.AC = ArmorClass(s, cat)
}
