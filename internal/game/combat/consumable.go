package combat

import (
	"fmt"

	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// UseItem consumes one unit of a healing item. With no name given, the first
// consumable that heals is used.
//
// Postcondition: refused, with no state change, when the item is not held or
// has no use; otherwise HP rises by the heal roll (capped at MaxHP) and the
// stack shrinks by one.
func UseItem(c *turn.Context, name string, out *turn.Outcome) error {
	s := c.State
	idx := -1
	if name != "" {
		var ok bool
		if idx, ok = inventory.Find(s, name); !ok {
			if idx, ok = inventory.FindMentioned(s, name); !ok {
				out.Refuse("You don't have any %s.", name)
				return nil
			}
		}
	} else {
		for i, it := range s.Inventory {
			if info, ok := c.Catalog.Describe(it.ID); ok && info.HealDice != "" && it.Quantity > 0 {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Refuse("You have nothing to use.")
			return nil
		}
	}

	item := s.Inventory[idx]
	info, ok := c.Catalog.Describe(item.ID)
	if !ok {
		info, ok = c.Catalog.Describe(item.Name)
	}
	if !ok || info.HealDice == "" || item.Quantity < 1 {
		out.Refuse("You can't use the %s like that.", item.Name)
		return nil
	}
	heal, err := c.Roll(info.HealDice)
	if err != nil {
		return fmt.Errorf("item %q: %w", item.Name, err)
	}
	restored := HealPlayer(s, heal)
	inventory.Remove(s, item.Name, 1)
	out.Add("You use the %s and recover %d HP (%d/%d).", item.Name, restored, s.HP, s.MaxHP)
	return nil
}
