package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/catalog/catalogtest"
	"github.com/cory-johannsen/delve/internal/game/dice/dicetest"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/scene"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

type scriptedHooks map[string][]string

func (h scriptedHooks) OnEnter(sceneID, _ string) []string { return h[sceneID] }

func at(location, sceneID string, entities ...state.Entity) *state.GameState {
	s := &state.GameState{HP: 10, MaxHP: 10, AC: 12, Level: 1, Location: location, StorySceneID: sceneID, WorldSeed: 42}
	s.NearbyEntities = entities
	state.Backfill(s)
	return s
}

func ctx(s *state.GameState, faces ...int) *turn.Context {
	return turn.NewContext(s, catalogtest.Catalog(), dicetest.NewFaces(faces...), zap.NewNop())
}

func rat(status string, hp int) state.Entity {
	return state.Entity{Name: "Rat", Status: status, HP: hp, MaxHP: 7, AC: 12, AttackBonus: 3, DamageDice: "1d4+1", Effects: []state.Effect{}}
}

func TestTravel_LivingThreatBlocksExit(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusAlive, 7))
	var out turn.Outcome
	matched, err := scene.NewManager(nil, 0).Travel(ctx(s), "climb the ladder", &out)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.True(t, out.Refused)
	assert.Equal(t, catalogtest.Cellar, s.Location)
	assert.Contains(t, out.Facts[0], "threats here must be cleared first")
}

func TestTravel_NoExitMatched(t *testing.T) {
	s := at(catalogtest.Tavern, catalogtest.TavernID)
	var out turn.Outcome
	matched, err := scene.NewManager(nil, 0).Travel(ctx(s), "dance a jig", &out)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Empty(t, out.Facts)
}

func TestTravel_EntersTargetScene(t *testing.T) {
	s := at(catalogtest.Tavern, catalogtest.TavernID)
	hooks := scriptedHooks{catalogtest.CellarID: {"Something skitters."}}
	var out turn.Outcome
	matched, err := scene.NewManager(hooks, 0).Travel(ctx(s), "descend into the dark", &out)
	require.NoError(t, err)
	require.True(t, matched)
	assert.False(t, out.Refused)
	assert.True(t, out.NewLocation)
	assert.Equal(t, catalogtest.Cellar, s.Location)
	assert.Equal(t, catalogtest.CellarID, s.StorySceneID)
	assert.Equal(t, []string{catalogtest.Cellar}, s.LocationHistory)
	require.Len(t, s.NearbyEntities, 1)
	assert.Equal(t, "Rat", s.NearbyEntities[0].Name)
	assert.True(t, s.NearbyEntities[0].IsAlive())
	assert.Contains(t, out.Facts, "Red eyes glint between the barrels.")
	assert.Contains(t, out.Facts, "Something skitters.")
	assert.Contains(t, out.Facts, "Damp barrels line the walls.")
}

func TestTravel_ConsumesRequiredItem(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusDead, 0))
	s.SetFlag("cellar_cleared")
	s.Inventory = []state.Item{{ID: "rusty_key", Name: "Rusty Key", Type: state.ItemKey, Quantity: 1}}
	var out turn.Outcome
	matched, err := scene.NewManager(nil, 0).Travel(ctx(s), "unlock the iron door", &out)
	require.NoError(t, err)
	require.True(t, matched)
	assert.False(t, out.Refused)
	assert.Equal(t, catalogtest.Crypt, s.Location)
	assert.False(t, inventory.Has(s, "rusty_key"))
	require.Len(t, s.NearbyEntities, 1)
	assert.Equal(t, "Skeleton", s.NearbyEntities[0].Name)
}

func TestTravel_MissingItemRefused(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusDead, 0))
	s.SetFlag("cellar_cleared")
	var out turn.Outcome
	matched, _ := scene.NewManager(nil, 0).Travel(ctx(s), "unlock", &out)
	assert.True(t, matched)
	assert.True(t, out.Refused)
	assert.Contains(t, out.Facts[0], "Rusty Key")
	assert.Equal(t, catalogtest.Cellar, s.Location)
}

func TestTravel_RequiredFlagRefused(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusDead, 0))
	s.Inventory = []state.Item{{ID: "rusty_key", Name: "Rusty Key", Type: state.ItemKey, Quantity: 1}}
	var out turn.Outcome
	matched, _ := scene.NewManager(nil, 0).Travel(ctx(s), "unlock", &out)
	assert.True(t, matched)
	assert.True(t, out.Refused)
	assert.True(t, inventory.Has(s, "rusty_key"))
}

func TestEnter_HistoryIsBounded(t *testing.T) {
	s := at(catalogtest.Tavern, catalogtest.TavernID)
	m := scene.NewManager(nil, 2)
	c := ctx(s)
	cat := catalogtest.Catalog()
	for _, id := range []string{catalogtest.CellarID, catalogtest.TavernID, catalogtest.CellarID} {
		sc, ok := cat.Scene(id)
		require.True(t, ok)
		var out turn.Outcome
		require.NoError(t, m.Enter(c, sc, &out))
	}
	assert.Equal(t, []string{catalogtest.Tavern, catalogtest.Cellar}, s.LocationHistory)
}

func TestComplete_GrantsOnce(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusDead, 0))
	c := ctx(s, 1)
	var out turn.Outcome
	done, err := scene.Complete(c, &out)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, s.HasFlag("cellar_cleared"))
	assert.Equal(t, 2, s.Gold)
	assert.Equal(t, 25, s.XP)
	assert.True(t, inventory.Has(s, "rusty_key"))
	assert.True(t, out.SearchFound)

	out = turn.Outcome{}
	done, err = scene.Complete(c, &out)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 2, s.Gold)
	assert.Equal(t, 25, s.XP)
}

func TestComplete_RequiresAVictory(t *testing.T) {
	for name, s := range map[string]*state.GameState{
		"fled":      at(catalogtest.Cellar, catalogtest.CellarID),
		"fighting":  at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusAlive, 3), rat(state.StatusDead, 0)),
		"no reward": at(catalogtest.Tavern, catalogtest.TavernID, rat(state.StatusDead, 0)),
	} {
		var out turn.Outcome
		done, err := scene.Complete(ctx(s), &out)
		require.NoError(t, err, name)
		assert.False(t, done, name)
	}
}

func TestDescribe_MemoizesVariant(t *testing.T) {
	s := at(catalogtest.Tavern, catalogtest.TavernID)
	sc, _ := catalogtest.Catalog().Scene(catalogtest.TavernID)
	first := scene.Describe(s, sc)
	assert.Contains(t, sc.Descriptions, first.Description)
	assert.Equal(t, "town/tavern/calm", first.ArtKey)
	assert.Equal(t, first, s.RoomRegistry[catalogtest.Tavern])
	assert.Equal(t, first, scene.Describe(s, sc))
	assert.Equal(t, "town/tavern/calm", s.SceneRegistry[catalogtest.Tavern+":calm"])
}

func TestProperty_VariantInRangeAndStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		loc := rapid.String().Draw(rt, "loc")
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		v := scene.Variant(seed, loc, n)
		if v < 0 || v >= n || v != scene.Variant(seed, loc, n) {
			rt.Fatalf("variant %d for n=%d", v, n)
		}
	})
}

func TestLook_ListsEntitiesAndExits(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusDead, 0))
	var out turn.Outcome
	scene.Look(ctx(s), "", &out)
	assert.Equal(t, []string{
		"Damp barrels line the walls.",
		"The body of a Rat lies here.",
		"From here you could climb or unlock.",
	}, out.Facts)
}

func TestLook_HostileHidesExits(t *testing.T) {
	s := at(catalogtest.Cellar, catalogtest.CellarID, rat(state.StatusAlive, 5))
	var out turn.Outcome
	scene.Look(ctx(s), "rat", &out)
	assert.Equal(t, []string{"Damp barrels line the walls.", "A Rat is here (5/7 HP)."}, out.Facts)
}
