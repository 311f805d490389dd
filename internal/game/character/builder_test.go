package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/catalog/catalogtest"
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/inventory"
)

func TestBuild_Fighter(t *testing.T) {
	s, err := character.Build(catalogtest.Catalog(), "Hero", "fighter", 7)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 14, s.MaxHP) // 12 + CON 14 modifier
	assert.Equal(t, s.MaxHP, s.HP)
	assert.Equal(t, 13, s.AC) // leather 11 + shield 2
	assert.Equal(t, 15, s.Gold)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 300, s.XPToNext)
	assert.Equal(t, catalogtest.Tavern, s.Location)
	assert.Equal(t, catalogtest.TavernID, s.StorySceneID)
	assert.Equal(t, int64(7), s.WorldSeed)
	assert.Equal(t, 16, s.AbilityScores["strength"])

	w, ok := inventory.Equipped(s, inventory.SlotWeapon)
	require.True(t, ok)
	assert.Equal(t, "Longsword", w.Name)
	assert.True(t, inventory.Has(s, "bandage"))
	assert.Empty(t, s.NearbyEntities)
}

func TestBuild_WizardSlots(t *testing.T) {
	s, err := character.Build(catalogtest.Catalog(), "Mage", "wizard", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, s.SpellSlots["1"].Max)
	assert.Equal(t, 2, s.SpellSlots["1"].Current)
	assert.Contains(t, s.KnownSpells, "Fire Bolt")
	assert.Equal(t, 10, s.AC)
}

func TestBuild_MissingAbilitiesDefault(t *testing.T) {
	src := catalogtest.Source()
	src.Classes[0].AbilityScores = map[string]int{"strength": 18}
	cat, err := catalog.Build(src)
	require.NoError(t, err)
	s, err := character.Build(cat, "Hero", "fighter", 0)
	require.NoError(t, err)
	assert.Equal(t, 18, s.AbilityScores["strength"])
	assert.Equal(t, character.BaseAbilityScore, s.AbilityScores["wisdom"])
	assert.Equal(t, 12, s.MaxHP)
}

func TestBuild_Errors(t *testing.T) {
	_, err := character.Build(catalogtest.Catalog(), "", "fighter", 0)
	assert.Error(t, err)
	_, err = character.Build(catalogtest.Catalog(), "Hero", "bard", 0)
	assert.ErrorIs(t, err, character.ErrUnknownClass)
}

// Property: MaxHP is always >= 1 regardless of constitution.
func TestBuild_MaxHPAlwaysPositive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := catalogtest.Source()
		src.Classes[0].HP = rapid.IntRange(1, 12).Draw(rt, "hp")
		src.Classes[0].AbilityScores = map[string]int{"constitution": rapid.IntRange(1, 20).Draw(rt, "con")}
		cat, err := catalog.Build(src)
		if err != nil {
			rt.Fatal(err)
		}
		s, err := character.Build(cat, "Hero", "fighter", 0)
		if err != nil {
			rt.Fatal(err)
		}
		if s.MaxHP < 1 || s.HP != s.MaxHP {
			rt.Fatalf("hp %d/%d", s.HP, s.MaxHP)
		}
	})
}

func TestAbilityName(t *testing.T) {
	assert.Equal(t, "STR", character.AbilityName("strength"))
	assert.Equal(t, "<luck>", character.AbilityName("luck"))
}
