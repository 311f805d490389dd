package economy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// LootItem is one item stack produced by a loot roll.
type LootItem struct {
	Info     catalog.ItemInfo
	Quantity int
}

// LootResult holds everything one loot roll produced.
type LootResult struct {
	Coins map[string]int
	// Copper is the value of Coins in copper pieces.
	Copper int
	Items  []LootItem
}

// Empty reports whether the roll produced nothing.
func (r LootResult) Empty() bool { return r.Copper == 0 && len(r.Items) == 0 }

// RollLoot rolls the named table: each coin denomination independently, then
// at most one item chosen by weight.
//
// Precondition: the table passed catalog validation.
// Postcondition: Copper == inventory.ToCopper(Coins); len(Items) <= 1. Returns an
// error for an unknown table, an unknown coin, or malformed dice.
func RollLoot(c *turn.Context, tableID string) (LootResult, error) {
	lt, ok := c.Catalog.LootTable(tableID)
	if !ok {
		return LootResult{}, fmt.Errorf("%w: unknown loot table %q", catalog.ErrInvalid, tableID)
	}
	res := LootResult{Coins: make(map[string]int)}

	// Denominations are rolled in sorted order so a seeded source replays identically.
	denoms := make([]string, 0, len(lt.Coins))
	for d := range lt.Coins {
		denoms = append(denoms, d)
	}
	sort.Strings(denoms)
	for _, d := range denoms {
		if !inventory.KnownDenomination(d) {
			return LootResult{}, fmt.Errorf("%w: loot table %q: unknown coin %q", catalog.ErrInvalid, lt.ID, d)
		}
		n, err := c.Roll(lt.Coins[d])
		if err != nil {
			return LootResult{}, fmt.Errorf("loot table %q: %w", lt.ID, err)
		}
		if n > 0 {
			res.Coins[d] = n
		}
	}
	res.Copper = inventory.ToCopper(res.Coins)

	total := lt.TotalWeight()
	if total <= 0 {
		return res, nil
	}
	pick, err := c.Roll(fmt.Sprintf("1d%d", total))
	if err != nil {
		return LootResult{}, err
	}
	for _, e := range lt.Entries {
		if pick > e.Weight {
			pick -= e.Weight
			continue
		}
		if e.Item == "" {
			break
		}
		info, ok := c.Catalog.Describe(e.Item)
		if !ok {
			return LootResult{}, fmt.Errorf("%w: loot table %q: unknown item %q", catalog.ErrInvalid, lt.ID, e.Item)
		}
		qty := 1
		if e.Quantity != "" {
			if qty, err = c.Roll(e.Quantity); err != nil {
				return LootResult{}, fmt.Errorf("loot table %q: %w", lt.ID, err)
			}
		}
		if qty > 0 {
			res.Items = append(res.Items, LootItem{Info: info, Quantity: qty})
		}
		break
	}
	return res, nil
}

// Grant adds a loot result to the player's purse and inventory and records it.
// Coins worth less than a gold piece stay in the purse as copper change.
func Grant(c *turn.Context, res LootResult, out *turn.Outcome) {
	s := c.State
	if res.Copper > 0 {
		gold := inventory.Deposit(s, res.Copper)
		out.GoldGained += gold
		out.CopperGained += res.Copper
		out.Add("You collect %s.", inventory.FormatCoins(res.Coins))
	}
	for _, it := range res.Items {
		inventory.Add(s, it.Info, it.Quantity)
		out.ItemsGained = append(out.ItemsGained, it.Info.Name)
		out.Add("You find %d × %s.", it.Quantity, it.Info.Name)
	}
}

// Search loots the first unlooted corpse matching target (or any unlooted
// corpse). Looting is one-shot: the corpse is renamed with the looted marker.
//
// Postcondition: LootAttempted is set; LootFound is set iff something was
// gained. Returns an error wrapping catalog.ErrUnknownMonster for a corpse
// with no stat block.
func Search(c *turn.Context, target string, out *turn.Outcome) error {
	s := c.State
	out.SearchAttempted = true
	idx := corpse(s, target)
	if idx < 0 {
		if anyLooted(s) {
			out.Add("There is nothing left to take; the bodies have been picked clean.")
		} else {
			out.Add("You search the area but find nothing of value.")
		}
		return nil
	}
	e := &s.NearbyEntities[idx]
	m, err := c.Catalog.Monster(e.Name)
	if err != nil {
		return err
	}
	out.LootAttempted = true
	name := e.Name
	e.Name += state.LootedSuffix
	if m.Loot == "" {
		out.Add("You search the %s but find nothing.", name)
		return nil
	}
	res, err := RollLoot(c, m.Loot)
	if err != nil {
		return err
	}
	if res.Empty() {
		out.Add("You search the %s but find nothing.", name)
		return nil
	}
	out.Add("You search the %s.", name)
	Grant(c, res, out)
	out.LootFound = true
	return nil
}

func corpse(s *state.GameState, target string) int {
	t := strings.ToLower(strings.TrimSpace(target))
	first := -1
	for i, e := range s.NearbyEntities {
		if e.Status != state.StatusDead || e.IsLooted() {
			continue
		}
		if first < 0 {
			first = i
		}
		if t != "" && strings.Contains(strings.ToLower(e.Name), t) {
			return i
		}
	}
	return first
}

func anyLooted(s *state.GameState) bool {
	for _, e := range s.NearbyEntities {
		if e.IsLooted() {
			return true
		}
	}
	return false
}
