// Package economy resolves trading with merchants and looting from loot tables.
package economy

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// SellPrice returns what a trader pays for an item with the given base price.
//
// Postcondition: Returns max(1, floor(base * rate)).
func SellPrice(base int, rate float64) int {
	p := int(math.Floor(float64(base) * rate))
	if p < 1 {
		return 1
	}
	return p
}

// trader returns the trader at the player's location, refusing when absent.
func trader(c *turn.Context, out *turn.Outcome) (*catalog.TraderDef, bool) {
	t, ok := c.Catalog.TraderAt(c.State.Location)
	if !ok {
		out.Refuse("There is no one here to trade with.")
		return nil, false
	}
	out.Override = turn.ModeGeneral
	return t, true
}

// OpenShop lists the wares of the trader at the player's location.
func OpenShop(c *turn.Context, out *turn.Outcome) {
	t, ok := trader(c, out)
	if !ok {
		return
	}
	wares := make([]string, 0, len(t.Stock))
	for _, st := range t.Stock {
		info, _ := c.Catalog.Describe(st.Item)
		wares = append(wares, fmt.Sprintf("%s (%d gold)", info.Name, st.Price))
	}
	out.Add("%s offers: %s.", t.Name, strings.Join(wares, ", "))
	out.Add("You have %d gold.", c.State.Gold)
}

// findStock returns the stock entry the request names, by exact name or id
// first and then by the longest name mentioned in the request.
func findStock(cat *catalog.Catalog, t *catalog.TraderDef, request string) (catalog.TraderStock, catalog.ItemInfo, bool) {
	want := catalog.Key(request)
	var best catalog.TraderStock
	var bestInfo catalog.ItemInfo
	bestLen := 0
	for _, st := range t.Stock {
		info, ok := cat.Describe(st.Item)
		if !ok {
			continue
		}
		name := catalog.Key(info.Name)
		if want == name || want == catalog.Key(info.ID) {
			return st, info, true
		}
		if strings.Contains(want, name) && len(name) > bestLen {
			best, bestInfo, bestLen = st, info, len(name)
		}
	}
	return best, bestInfo, bestLen > 0
}

// Buy purchases one unit of item from the local trader. Weapons and armor are
// equipped on purchase, replacing whatever held the same slot.
//
// Postcondition: refused with no state change when no trader is present, the
// item is not stocked, or the player cannot afford it.
func Buy(c *turn.Context, item string, out *turn.Outcome) {
	s := c.State
	t, ok := trader(c, out)
	if !ok {
		return
	}
	st, info, ok := findStock(c.Catalog, t, item)
	if !ok {
		out.Refuse("%s doesn't sell %s.", t.Name, item)
		return
	}
	if s.Gold < st.Price {
		out.Refuse("You can't afford the %s: it costs %d gold and you have %d.", info.Name, st.Price, s.Gold)
		return
	}
	s.Gold -= st.Price
	idx := inventory.Add(s, info, 1)
	out.Add("You buy the %s for %d gold (%d left).", info.Name, st.Price, s.Gold)
	if info.Type == catalog.TypeWeapon || info.Type == catalog.TypeArmor {
		inventory.Equip(s, idx)
		inventory.RecomputeAC(s, c.Catalog)
		out.Add("You equip the %s. Your AC is now %d.", info.Name, s.AC)
	}
}

// Sell sells one unit of item to the local trader.
//
// Postcondition: refused with no state change when no trader is present or
// the item is not held; otherwise gold rises by SellPrice and the stack shrinks.
func Sell(c *turn.Context, item string, out *turn.Outcome) {
	s := c.State
	t, ok := trader(c, out)
	if !ok {
		return
	}
	idx, ok := inventory.Find(s, item)
	if !ok {
		idx, ok = inventory.FindMentioned(s, item)
	}
	if !ok || s.Inventory[idx].Quantity < 1 {
		out.Refuse("You don't have any %s to sell.", item)
		return
	}
	held := s.Inventory[idx]
	base := 0
	if info, ok := describe(c.Catalog, held); ok {
		base = info.Price
	}
	price := SellPrice(base, t.BuybackRate)
	inventory.Remove(s, held.Name, 1)
	s.Gold += price
	inventory.RecomputeAC(s, c.Catalog)
	out.Add("You sell the %s to %s for %d gold (%d total).", held.Name, t.Name, price, s.Gold)
}

func describe(cat *catalog.Catalog, it state.Item) (catalog.ItemInfo, bool) {
	if info, ok := cat.Describe(it.ID); ok {
		return info, true
	}
	return cat.Describe(it.Name)
}
