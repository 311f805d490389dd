package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/catalog/catalogtest"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/dice/dicetest"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

func rat(hp int) state.Entity {
	return state.Entity{Name: "Rat", Status: state.StatusAlive, HP: hp, MaxHP: 7, AC: 12, AttackBonus: 3, DamageDice: "1d4+1", Effects: []state.Effect{}}
}

func fighter(entities ...state.Entity) *state.GameState {
	s := &state.GameState{
		CharacterClass: "fighter",
		HP:             12, MaxHP: 12, AC: 13, Level: 1,
		Location: catalogtest.Cellar,
		Inventory: []state.Item{
			{ID: "longsword", Name: "Longsword", Type: state.ItemWeapon, Quantity: 1, Equipped: true},
			{ID: "quarterstaff", Name: "Quarterstaff", Type: state.ItemWeapon, Quantity: 1},
			{ID: "bandage", Name: "Bandage", Type: state.ItemMisc, Quantity: 1},
			{ID: "rusty_key", Name: "Rusty Key", Type: state.ItemKey, Quantity: 1},
		},
		NearbyEntities: entities,
	}
	state.Backfill(s)
	return s
}

func ctx(s *state.GameState, faces ...int) *turn.Context {
	return turn.NewContext(s, catalogtest.Catalog(), dicetest.NewFaces(faces...), zap.NewNop())
}

func TestAttack_HitReducesHP(t *testing.T) {
	s := fighter(rat(7))
	var out turn.Outcome
	require.NoError(t, combat.Attack(ctx(s, 15, 4), "", "rat", &out))
	assert.Equal(t, 3, s.NearbyEntities[0].HP)
	assert.Equal(t, state.StatusAlive, s.NearbyEntities[0].Status)
	assert.True(t, out.Hit)
	assert.False(t, out.Kill)
	assert.Equal(t, 4, out.DealtDamage)
}

func TestAttack_MeetingACHits(t *testing.T) {
	s := fighter(rat(7))
	var out turn.Outcome
	require.NoError(t, combat.Attack(ctx(s, 12, 1), "", "", &out))
	assert.True(t, out.Hit)
}

func TestAttack_Miss(t *testing.T) {
	s := fighter(rat(7))
	var out turn.Outcome
	require.NoError(t, combat.Attack(ctx(s, 11), "", "rat", &out))
	assert.True(t, out.Miss)
	assert.Equal(t, 7, s.NearbyEntities[0].HP)
}

func TestAttack_KillAwardsXP(t *testing.T) {
	s := fighter(rat(3))
	var out turn.Outcome
	require.NoError(t, combat.Attack(ctx(s, 15, 5), "", "rat", &out))
	e := s.NearbyEntities[0]
	assert.Equal(t, 0, e.HP)
	assert.Equal(t, state.StatusDead, e.Status)
	assert.True(t, out.Kill)
	assert.Equal(t, 25, out.XPEarned)
}

func TestAttack_UnknownMonsterFailsFast(t *testing.T) {
	beast := rat(1)
	beast.Name = "Jabberwock"
	s := fighter(beast)
	var out turn.Outcome
	err := combat.Attack(ctx(s, 20, 2), "", "", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownMonster)
}

func TestAttack_NothingAliveIsRefused(t *testing.T) {
	dead := rat(0)
	dead.Status = state.StatusDead
	s := fighter(dead)
	var out turn.Outcome
	require.NoError(t, combat.Attack(ctx(s, 20, 8), "", "rat", &out))
	assert.True(t, out.Refused)
	assert.Equal(t, 0, s.NearbyEntities[0].HP)
}

func TestAttack_DamageEdgeAdds(t *testing.T) {
	s := fighter(rat(7))
	s.ActiveEffects = []state.Effect{{Name: "Edge", Type: condition.TypeDamageBonus, Value: 2}}
	var out turn.Outcome
	require.NoError(t, combat.Attack(ctx(s, 15, 1), "", "rat", &out))
	assert.Equal(t, 3, out.DealtDamage)
}

func TestResolveWeapon(t *testing.T) {
	cat := catalogtest.Catalog()
	s := fighter()
	assert.Equal(t, "Longsword", combat.ResolveWeapon(s, cat, "").Name)
	assert.Equal(t, "Longsword", combat.ResolveWeapon(s, cat, "greataxe").Name, "not carried")
	assert.Equal(t, combat.UnarmedName, combat.ResolveWeapon(s, cat, "quarterstaff").Name, "not allowed for fighters")

	s.Inventory[0].Equipped = false
	w := combat.ResolveWeapon(s, cat, "")
	assert.Equal(t, combat.UnarmedName, w.Name)
	assert.Equal(t, combat.UnarmedDice, w.DamageDice)
}

func TestFindTarget(t *testing.T) {
	dead := rat(0)
	dead.Status = state.StatusDead
	skel := state.Entity{Name: "Skeleton", Status: state.StatusAlive, HP: 13, MaxHP: 13, AC: 13}
	s := fighter(dead, rat(7), skel)
	i, ok := combat.FindTarget(s, "skeleton")
	require.True(t, ok)
	assert.Equal(t, 2, i)
	i, _ = combat.FindTarget(s, "rat")
	assert.Equal(t, 1, i, "dead rat skipped")
	i, _ = combat.FindTarget(s, "the big one")
	assert.Equal(t, 1, i, "falls back to first living")
}

func TestDefend_RaisesEffectiveAC(t *testing.T) {
	s := fighter(rat(7))
	c := ctx(s, 13) // 13+3 = 16 vs 13+4
	var out turn.Outcome
	combat.Defend(c, &out)
	assert.Equal(t, 17, condition.EffectiveAC(s))
	require.True(t, combat.MonsterShouldAct(s, false, true))
	require.NoError(t, combat.MonsterTurn(c, &out))
	assert.Equal(t, 12, s.HP)
	assert.Zero(t, out.TookDamage)
}

func TestMonsterTurn_HitMeetsAC(t *testing.T) {
	s := fighter(rat(7))
	var out turn.Outcome
	require.NoError(t, combat.MonsterTurn(ctx(s, 10, 3), &out)) // 10+3 = 13 vs 13; 3+1 damage
	assert.Equal(t, 8, s.HP)
	assert.Equal(t, 4, out.TookDamage)
}

func TestMonsterTurn_FloorsPlayerHP(t *testing.T) {
	s := fighter(rat(7))
	s.HP = 2
	var out turn.Outcome
	require.NoError(t, combat.MonsterTurn(ctx(s, 20, 4), &out))
	assert.Equal(t, 0, s.HP)
}

func TestMonsterShouldAct_TruthTable(t *testing.T) {
	s := fighter(rat(7))
	assert.False(t, combat.MonsterShouldAct(s, false, false))
	assert.True(t, combat.MonsterShouldAct(s, true, false))
	assert.True(t, combat.MonsterShouldAct(s, false, true))

	s.NearbyEntities[0].Effects = []state.Effect{{Name: "prone", Type: condition.TypePin, ExpiresAtTurn: 2}}
	assert.False(t, combat.MonsterShouldAct(s, true, true), "pinned entities do not act")

	s = fighter()
	assert.False(t, combat.MonsterShouldAct(s, true, true), "nothing alive")
}

func TestStillActive(t *testing.T) {
	s := fighter(rat(7))
	assert.True(t, combat.StillActive(s, true, false))
	assert.True(t, combat.StillActive(s, false, true))
	assert.False(t, combat.StillActive(s, false, false))
	s.HP = 0
	assert.False(t, combat.StillActive(s, true, true), "player death ends combat")
}

func TestRun(t *testing.T) {
	s := fighter(rat(7))
	s.IsCombatActive = true
	var out turn.Outcome
	combat.Run(ctx(s), &out)
	assert.Empty(t, s.NearbyEntities)
	assert.False(t, s.IsCombatActive)

	out = turn.Outcome{}
	combat.Run(ctx(s), &out)
	assert.True(t, out.Refused)
}

func TestUseItem_HealsAndConsumes(t *testing.T) {
	s := fighter()
	s.HP = 5
	var out turn.Outcome
	require.NoError(t, combat.UseItem(ctx(s, 3), "bandage", &out))
	assert.Equal(t, 8, s.HP)
	assert.False(t, out.Refused)
	_, held := findItem(s, "Bandage")
	assert.False(t, held)
}

func TestUseItem_CapsAtMaxHP(t *testing.T) {
	s := fighter()
	s.HP = 11
	var out turn.Outcome
	require.NoError(t, combat.UseItem(ctx(s, 4), "", &out))
	assert.Equal(t, 12, s.HP)
}

func TestUseItem_Refusals(t *testing.T) {
	s := fighter()
	var out turn.Outcome
	require.NoError(t, combat.UseItem(ctx(s), "healing potion", &out))
	assert.True(t, out.Refused)

	out = turn.Outcome{}
	require.NoError(t, combat.UseItem(ctx(s), "rusty key", &out))
	assert.True(t, out.Refused)
	_, held := findItem(s, "Rusty Key")
	assert.True(t, held)
}

func findItem(s *state.GameState, name string) (state.Item, bool) {
	for _, it := range s.Inventory {
		if it.Name == name {
			return it, true
		}
	}
	return state.Item{}, false
}

func TestProperty_HPStaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		hp := rapid.IntRange(1, 7).Draw(rt, "ratHP")
		s := fighter(rat(hp))
		s.HP = rapid.IntRange(1, 12).Draw(rt, "playerHP")
		faces := rapid.SliceOfN(rapid.IntRange(1, 20), 4, 4).Draw(rt, "faces")
		c := ctx(s, faces...)
		var out turn.Outcome
		if err := combat.Attack(c, "", "rat", &out); err != nil {
			rt.Fatalf("attack: %v", err)
		}
		if combat.MonsterShouldAct(s, true, true) {
			if err := combat.MonsterTurn(c, &out); err != nil {
				rt.Fatalf("monster: %v", err)
			}
		}
		if s.HP < 0 || s.HP > s.MaxHP {
			rt.Fatalf("player hp %d out of bounds", s.HP)
		}
		for _, e := range s.NearbyEntities {
			if e.HP < 0 || e.HP > e.MaxHP {
				rt.Fatalf("entity hp %d out of bounds", e.HP)
			}
			if (e.HP == 0) != (e.Status == state.StatusDead) {
				rt.Fatalf("status %q inconsistent with hp %d", e.Status, e.HP)
			}
		}
	})
}
