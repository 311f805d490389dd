package spell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog/catalogtest"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/dice/dicetest"
	"github.com/cory-johannsen/delve/internal/game/spell"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

func rat() state.Entity {
	return state.Entity{Name: "Rat", Status: state.StatusAlive, HP: 7, MaxHP: 7, AC: 12, AttackBonus: 3, DamageDice: "1d4+1", Effects: []state.Effect{}}
}

func wizard(entities ...state.Entity) *state.GameState {
	cl, _ := catalogtest.Catalog().Class("wizard")
	s := &state.GameState{
		CharacterClass: "wizard",
		HP:             4, MaxHP: 8, AC: 10, Level: 1,
		AbilityScores:  cl.AbilityScores,
		KnownSpells:    append([]string(nil), cl.KnownSpells...),
		PreparedSpells: append([]string(nil), cl.PreparedSpells...),
		SpellSlots:     map[string]state.SpellSlot{"1": {Max: 2, Current: 2}},
		Location:       catalogtest.Cellar,
		TurnCounter:    5,
		NearbyEntities: entities,
	}
	state.Backfill(s)
	return s
}

func cast(t *testing.T, s *state.GameState, ability, target string, faces ...int) turn.Outcome {
	t.Helper()
	c := turn.NewContext(s, catalogtest.Catalog(), dicetest.NewFaces(faces...), zap.NewNop())
	var out turn.Outcome
	require.NoError(t, spell.Cast(c, ability, target, &out))
	return out
}

func TestSaveDCAndAttackBonus(t *testing.T) {
	s := wizard()
	assert.Equal(t, 13, spell.SaveDC(s, "intelligence"))
	assert.Equal(t, 5, spell.AttackBonus(s, "intelligence"))
}

func TestCast_CantripAttackHits(t *testing.T) {
	s := wizard(rat())
	out := cast(t, s, "Fire Bolt", "rat", 10, 6) // 10+5 vs 12
	assert.True(t, out.Hit)
	assert.Equal(t, 1, s.NearbyEntities[0].HP)
	assert.Equal(t, 2, s.SpellSlots["1"].Current, "cantrips are free")
}

func TestCast_CantripAttackMisses(t *testing.T) {
	s := wizard(rat())
	out := cast(t, s, "fire bolt", "", 6) // 6+5 vs 12
	assert.True(t, out.Miss)
	assert.Equal(t, 7, s.NearbyEntities[0].HP)
}

func TestCast_LegacyDamageKillsAndSpendsSlot(t *testing.T) {
	s := wizard(rat())
	out := cast(t, s, "Magic Missile", "rat", 2, 2, 2) // 3d4+3 = 9
	assert.True(t, out.Kill)
	assert.Equal(t, 25, out.XPEarned)
	assert.Equal(t, state.StatusDead, s.NearbyEntities[0].Status)
	assert.Equal(t, 1, s.SpellSlots["1"].Current)
}

func TestCast_SaveHalfOnSuccess(t *testing.T) {
	s := wizard(rat())
	out := cast(t, s, "Burning Hands", "rat", 13, 4, 4, 4) // save 13 vs DC 13; 12 halved
	assert.Equal(t, 6, out.DealtDamage)
	assert.Equal(t, 1, s.NearbyEntities[0].HP)
}

func TestCast_SaveFailedTakesFull(t *testing.T) {
	s := wizard(rat())
	out := cast(t, s, "Sacred Flame", "rat", 2, 8)
	assert.True(t, out.Kill)
	assert.Equal(t, 0, s.NearbyEntities[0].HP)
}

func TestCast_MechanicsHeal(t *testing.T) {
	s := wizard()
	out := cast(t, s, "Cure Wounds", "", 5) // 1d8+3 = 8, capped
	assert.False(t, out.Refused)
	assert.Equal(t, 8, s.HP)
	assert.Equal(t, 1, s.SpellSlots["1"].Current)
}

func TestCast_UnconditionalDamage(t *testing.T) {
	s := wizard(rat())
	cast(t, s, "Thunder Strike", "", 1, 2)
	assert.Equal(t, 4, s.NearbyEntities[0].HP)
}

func TestCast_LegacyACBuffExpires(t *testing.T) {
	s := wizard()
	cast(t, s, "Shield", "")
	require.Len(t, s.ActiveEffects, 1)
	assert.Equal(t, 5, condition.ACBonus(s.ActiveEffects))
	assert.Equal(t, 6, s.ActiveEffects[0].ExpiresAtTurn)
	assert.Empty(t, condition.Prune(s.ActiveEffects, 7))
}

func TestCast_LegacyPinsTarget(t *testing.T) {
	s := wizard(rat())
	cast(t, s, "sleep", "rat")
	assert.True(t, condition.IsPinned(s.NearbyEntities[0].Effects))
}

func TestCast_Refusals(t *testing.T) {
	cases := map[string]func(*state.GameState) (string, string){
		"unknown spell": func(s *state.GameState) (string, string) { return "Wish", "" },
		"not known":     func(s *state.GameState) (string, string) { s.KnownSpells = []string{"Light"}; return "Fire Bolt", "rat" },
		"not prepared": func(s *state.GameState) (string, string) {
			s.PreparedSpells = []string{}
			return "Magic Missile", "rat"
		},
		"no slots": func(s *state.GameState) (string, string) {
			s.SpellSlots["1"] = state.SpellSlot{Max: 2, Current: 0}
			return "Magic Missile", "rat"
		},
		"no target": func(s *state.GameState) (string, string) {
			s.NearbyEntities = []state.Entity{}
			return "Magic Missile", "rat"
		},
		"empty": func(s *state.GameState) (string, string) { return "", "" },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			s := wizard(rat())
			ability, target := setup(s)
			slots := s.SpellSlots["1"]
			out := cast(t, s, ability, target, 20, 4, 4, 4)
			assert.True(t, out.Refused)
			assert.Equal(t, slots, s.SpellSlots["1"])
			for _, e := range s.NearbyEntities {
				assert.Equal(t, 7, e.HP)
			}
		})
	}
}

func TestCast_UnmodeledIsNarratedNoOp(t *testing.T) {
	s := wizard(rat())
	out := cast(t, s, "Light", "")
	assert.False(t, out.Refused)
	assert.NotEmpty(t, out.Facts)
	assert.Equal(t, 2, s.SpellSlots["1"].Current)
}
