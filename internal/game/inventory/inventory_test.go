package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/catalog/catalogtest"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/state"
)

func newState() *state.GameState {
	s := &state.GameState{
		HP: 10, MaxHP: 10, Level: 1, Location: catalogtest.Tavern,
		Inventory: []state.Item{
			{ID: "longsword", Name: "Longsword", Type: state.ItemWeapon, Quantity: 1, Equipped: true},
			{ID: "leather_armor", Name: "Leather Armor", Type: state.ItemArmor, Quantity: 1, Equipped: true},
			{ID: "bandage", Name: "Bandage", Type: state.ItemMisc, Quantity: 2},
		},
	}
	state.Backfill(s)
	return s
}

func TestAdd_MergesStacks(t *testing.T) {
	cat := catalogtest.Catalog()
	s := newState()
	info, ok := cat.Describe("bandage")
	require.True(t, ok)
	idx := inventory.Add(s, info, 3)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 5, s.Inventory[idx].Quantity)
	assert.Len(t, s.Inventory, 3)

	info, _ = cat.Describe("torch")
	idx = inventory.Add(s, info, 1)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "Torch", s.Inventory[idx].Name)
}

func TestRemove_DropsEmptyStack(t *testing.T) {
	s := newState()
	require.True(t, inventory.Remove(s, "Bandage", 1))
	assert.Equal(t, 1, s.Inventory[2].Quantity)
	require.True(t, inventory.Remove(s, "bandage", 1))
	assert.Len(t, s.Inventory, 2)
	assert.False(t, inventory.Has(s, "bandage"))
}

func TestRemove_InsufficientLeavesInventory(t *testing.T) {
	s := newState()
	before := append([]state.Item(nil), s.Inventory...)
	assert.False(t, inventory.Remove(s, "bandage", 3))
	assert.False(t, inventory.Remove(s, "rope", 1))
	assert.Equal(t, before, s.Inventory)
}

func TestRemove_DoesNotAliasClone(t *testing.T) {
	prev := newState()
	work := prev.Clone()
	require.True(t, inventory.Remove(work, "leather armor", 1))
	assert.Equal(t, "Leather Armor", prev.Inventory[1].Name)
	assert.Len(t, prev.Inventory, 3)
}

func TestEquip_ReplacesSameSlotOnly(t *testing.T) {
	cat := catalogtest.Catalog()
	s := newState()
	info, _ := cat.Describe("chain mail")
	idx := inventory.Add(s, info, 1)
	require.True(t, inventory.Equip(s, idx))
	assert.False(t, s.Inventory[1].Equipped, "leather armor unequipped")
	assert.True(t, s.Inventory[0].Equipped, "weapon untouched")

	info, _ = cat.Describe("wooden shield")
	sh := inventory.Add(s, info, 1)
	require.True(t, inventory.Equip(s, sh))
	assert.True(t, s.Inventory[idx].Equipped, "body armor untouched by shield")
	require.NoError(t, s.Validate())

	assert.False(t, inventory.Equip(s, 2), "bandages have no slot")
}

func TestArmorClass_FromGear(t *testing.T) {
	cat := catalogtest.Catalog()
	s := newState()
	assert.Equal(t, 11, inventory.ArmorClass(s, cat))

	info, _ := cat.Describe("wooden shield")
	inventory.Equip(s, inventory.Add(s, info, 1))
	inventory.RecomputeAC(s, cat)
	assert.Equal(t, 13, s.AC)

	s.Inventory[1].Equipped = false
	assert.Equal(t, 12, inventory.ArmorClass(s, cat), "unarmored plus shield")
}

func TestFindMentioned_PrefersLongestName(t *testing.T) {
	cat := catalogtest.Catalog()
	s := newState()
	info, _ := cat.Describe("healing potion")
	inventory.Add(s, info, 1)
	idx, ok := inventory.FindMentioned(s, "drink the healing potion now")
	require.True(t, ok)
	assert.Equal(t, "Healing Potion", s.Inventory[idx].Name)
	_, ok = inventory.FindMentioned(s, "sing a song")
	assert.False(t, ok)
}

func TestToCopper(t *testing.T) {
	assert.Equal(t, 300, inventory.ToCopper(map[string]int{"gold": 3}))
	assert.Equal(t, 120, inventory.ToCopper(map[string]int{"silver": 12}))
	assert.Equal(t, 1210, inventory.ToCopper(map[string]int{"platinum": 1, "silver": 15, "copper": 60}))
	assert.Equal(t, 0, inventory.ToCopper(map[string]int{"buttons": 400}))
}

func TestDeposit_CarriesChange(t *testing.T) {
	s := &state.GameState{Gold: 1, Copper: 95}
	assert.Equal(t, 0, inventory.Deposit(s, 4))
	assert.Equal(t, 1, s.Gold)
	assert.Equal(t, 99, s.Copper)
	assert.Equal(t, 1, inventory.Deposit(s, 1))
	assert.Equal(t, 2, s.Gold)
	assert.Equal(t, 0, s.Copper)
	assert.Equal(t, 3, inventory.Deposit(s, 312))
	assert.Equal(t, 5, s.Gold)
	assert.Equal(t, 12, s.Copper)
}

func TestProperty_DepositKeepsValue(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := &state.GameState{
			Gold:   rapid.IntRange(0, 1000).Draw(rt, "gold"),
			Copper: rapid.IntRange(0, state.CopperPerGold-1).Draw(rt, "copper"),
		}
		before := s.Gold*state.CopperPerGold + s.Copper
		add := rapid.IntRange(0, 100000).Draw(rt, "add")
		inventory.Deposit(s, add)
		if s.Copper < 0 || s.Copper >= state.CopperPerGold {
			rt.Fatalf("copper %d out of range", s.Copper)
		}
		if got := s.Gold*state.CopperPerGold + s.Copper; got != before+add {
			rt.Fatalf("purse worth %d, want %d", got, before+add)
		}
	})
}

func TestKnownDenomination(t *testing.T) {
	assert.True(t, inventory.KnownDenomination("Gold"))
	assert.True(t, inventory.KnownDenomination("copper"))
	assert.False(t, inventory.KnownDenomination("buttons"))
}

func TestFormatCoins(t *testing.T) {
	assert.Equal(t, "1 platinum, 3 gold, 2 copper", inventory.FormatCoins(map[string]int{"copper": 2, "gold": 3, "platinum": 1, "silver": 0}))
	assert.Equal(t, "", inventory.FormatCoins(nil))
}
