package state_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/state"
)

func fighter() *state.GameState {
	s := &state.GameState{
		Name:           "Brakka",
		CharacterClass: "fighter",
		HP:             9,
		MaxHP:          12,
		AC:             13,
		Gold:           15,
		Level:          1,
		XP:             40,
		XPToNext:       300,
		Skills:         []string{"athletics"},
		AbilityScores:  map[string]int{"strength": 16, "dexterity": 9},
		Inventory: []state.Item{
			{ID: "longsword", Name: "Longsword", Type: state.ItemWeapon, Quantity: 1, Equipped: true},
			{ID: "leather_armor", Name: "Leather Armor", Type: state.ItemArmor, Quantity: 1, Equipped: true},
			{ID: "wooden_shield", Name: "Wooden Shield", Type: state.ItemArmor, Quantity: 1, Equipped: true},
			{ID: "bandage", Name: "Bandage", Type: state.ItemMisc, Quantity: 2},
		},
		NearbyEntities: []state.Entity{
			{Name: "Giant Rat", Status: state.StatusAlive, HP: 7, MaxHP: 7, AC: 12, AttackBonus: 3, DamageDice: "1d4+1",
				Effects: []state.Effect{{Name: "prone", Type: "pin", ExpiresAtTurn: 4}}},
			{Name: "Giant Rat (looted)", Status: state.StatusDead, HP: 0, MaxHP: 7, AC: 12, Effects: []state.Effect{}},
		},
		ActiveEffects:   []state.Effect{{Name: "Shield", Type: "ac_bonus", Value: 5, ExpiresAtTurn: 3}},
		KnownSpells:     []string{},
		PreparedSpells:  []string{},
		SpellSlots:      map[string]state.SpellSlot{"1": {Max: 2, Current: 1}},
		Location:        "Flagon Cellar",
		StorySceneID:    "cellar",
		StoryFlags:      []string{"met_marta"},
		LocationHistory: []string{"The Gilded Flagon", "Flagon Cellar"},
		RoomRegistry:    map[string]state.RoomEntry{"Flagon Cellar": {Description: "Damp barrels."}},
		SceneRegistry:   map[string]string{"Flagon Cellar|Giant Rat": "dungeon/giant_rat"},
		LastRolls:       []int{15, 4},
		Log: []state.LogEntry{
			{ID: "a", Mode: "COMBAT_HIT", Summary: "You hit.", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		},
		TurnCounter:    3,
		WorldSeed:      42,
		IsCombatActive: true,
	}
	state.Backfill(s)
	return s
}

func TestValidate_Fixture(t *testing.T) {
	require.NoError(t, fighter().Validate())
}

func TestValidate_HPOutOfBounds(t *testing.T) {
	s := fighter()
	s.HP = 13
	assert.Error(t, s.Validate())
	s.HP = -1
	assert.Error(t, s.Validate())
}

func TestValidate_CopperIsChangeOnly(t *testing.T) {
	s := fighter()
	s.Copper = state.CopperPerGold - 1
	require.NoError(t, s.Validate())
	s.Copper = state.CopperPerGold
	assert.Error(t, s.Validate())
	s.Copper = -1
	assert.Error(t, s.Validate())
}

func TestValidate_TwoWeaponsEquipped(t *testing.T) {
	s := fighter()
	s.Inventory = append(s.Inventory, state.Item{Name: "Dagger", Type: state.ItemWeapon, Quantity: 1, Equipped: true})
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weapons equipped")
}

func TestValidate_ShieldAndArmorAreSeparateSlots(t *testing.T) {
	s := fighter()
	s.Inventory = append(s.Inventory, state.Item{Name: "Tower Shield", Type: state.ItemArmor, Quantity: 1, Equipped: true})
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shields equipped")
}

func TestValidate_DeadIffZeroHP(t *testing.T) {
	s := fighter()
	s.NearbyEntities[0].HP = 0
	assert.Error(t, s.Validate(), "alive entity at 0 hp")

	s = fighter()
	s.NearbyEntities[1].HP = 3
	assert.Error(t, s.Validate(), "dead entity above 0 hp")

	s = fighter()
	s.NearbyEntities = append(s.NearbyEntities, state.Entity{Name: "Barrel", Status: state.StatusObject, HP: 0, MaxHP: 0})
	assert.NoError(t, s.Validate(), "objects are exempt")
}

func TestClone_IsDeep(t *testing.T) {
	orig := fighter()
	c := orig.Clone()

	c.Inventory[0].Equipped = false
	c.NearbyEntities[0].HP = 1
	c.NearbyEntities[0].Effects[0].Name = "changed"
	c.SpellSlots["1"] = state.SpellSlot{Max: 2, Current: 0}
	c.AbilityScores["strength"] = 3
	c.RoomRegistry["x"] = state.RoomEntry{}
	c.StoryFlags[0] = "changed"
	c.Log[0].Summary = "changed"

	assert.True(t, orig.Inventory[0].Equipped)
	assert.Equal(t, 7, orig.NearbyEntities[0].HP)
	assert.Equal(t, "prone", orig.NearbyEntities[0].Effects[0].Name)
	assert.Equal(t, 1, orig.SpellSlots["1"].Current)
	assert.Equal(t, 16, orig.AbilityScores["strength"])
	assert.NotContains(t, orig.RoomRegistry, "x")
	assert.Equal(t, "met_marta", orig.StoryFlags[0])
	assert.Equal(t, "You hit.", orig.Log[0].Summary)
}

func TestHydrate_RoundTrip(t *testing.T) {
	orig := fighter()
	data, err := state.Serialize(orig)
	require.NoError(t, err)

	got, err := state.Hydrate(data)
	require.NoError(t, err)
	assert.Equal(t, orig.HP, got.HP)
	assert.Equal(t, orig.MaxHP, got.MaxHP)
	assert.Equal(t, orig.AC, got.AC)
	assert.Equal(t, orig.Gold, got.Gold)
	assert.Equal(t, orig.Inventory, got.Inventory)
	assert.Equal(t, orig.NearbyEntities, got.NearbyEntities)
	assert.Equal(t, orig.SpellSlots, got.SpellSlots)
	assert.Equal(t, orig.RoomRegistry, got.RoomRegistry)
	assert.True(t, orig.Log[0].CreatedAt.Equal(got.Log[0].CreatedAt))
}

func TestHydrate_BackfillsMissingFields(t *testing.T) {
	raw := `{"hp":5,"maxHp":10,"ac":10,"gold":0,"level":1,"xp":0,"location":"Road"}`
	got, err := state.Hydrate([]byte(raw))
	require.NoError(t, err)
	assert.NotNil(t, got.Skills)
	assert.NotNil(t, got.SpellSlots)
	assert.NotNil(t, got.Inventory)
	for _, a := range state.Abilities {
		assert.Equal(t, 10, got.AbilityScores[a], a)
	}
}

func TestHydrate_RejectsIncompatibleSaves(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{`,
		"unknown field":   `{"hp":5,"maxHp":10,"level":1,"location":"Road","mana":3}`,
		"wrong type":      `{"hp":"five","maxHp":10,"level":1,"location":"Road"}`,
		"hp above max":    `{"hp":11,"maxHp":10,"level":1,"location":"Road"}`,
		"missing vitals":  `{"location":"Road"}`,
		"trailing object": `{"hp":5,"maxHp":10,"level":1,"location":"Road"}{}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := state.Hydrate([]byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, state.ErrIncompatibleSave)
		})
	}
}

func TestSerialize_UsesWireFieldNames(t *testing.T) {
	data, err := state.Serialize(fighter())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"hp", "maxHp", "tempAcBonus", "nearbyEntities", "spellSlots", "storySceneId", "turnCounter", "worldSeed"} {
		assert.Contains(t, m, k)
	}
}

func TestAbilityMod_FloorDivision(t *testing.T) {
	s := fighter()
	assert.Equal(t, 3, s.AbilityMod("strength"))
	assert.Equal(t, -1, s.AbilityMod("dexterity"))
	assert.Equal(t, 0, s.AbilityMod("luck"))
}

func TestSetFlag_Idempotent(t *testing.T) {
	s := fighter()
	s.SetFlag("cellar_cleared")
	s.SetFlag("cellar_cleared")
	n := 0
	for _, f := range s.StoryFlags {
		if f == "cellar_cleared" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestProperty_HydrateSerialize_PreservesVitals(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := fighter()
		s.MaxHP = rapid.IntRange(1, 200).Draw(rt, "maxHp")
		s.HP = rapid.IntRange(0, s.MaxHP).Draw(rt, "hp")
		s.Gold = rapid.IntRange(0, 10000).Draw(rt, "gold")
		s.XP = rapid.IntRange(0, 100000).Draw(rt, "xp")
		data, err := state.Serialize(s)
		if err != nil {
			rt.Fatalf("serialize: %v", err)
		}
		got, err := state.Hydrate(data)
		if err != nil {
			rt.Fatalf("hydrate: %v", err)
		}
		if got.HP != s.HP || got.MaxHP != s.MaxHP || got.Gold != s.Gold || got.XP != s.XP {
			rt.Fatalf("vitals changed: %+v", got)
		}
	})
}
