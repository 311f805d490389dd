package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/dice"
)

func TestRollResult_LeadingNegativeTerm(t *testing.T) {
	res, err := dice.RollExpr("-1d4", &scriptedSrc{vals: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, []int{-3}, res.Dice)
	assert.Equal(t, 0, res.Modifier)
	assert.Equal(t, -3, res.Total())
	assert.Equal(t, "-1d4 → [-3] +0 = -3", res.String())
}

func TestRollResult_StringShowsSignedDice(t *testing.T) {
	res, err := dice.RollExpr("2d6-1d4+1", &scriptedSrc{vals: []int{5, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "2d6-1d4+1 → [6 3 -4] +1 = 6", res.String())
}

func TestRollResult_StringRequiresExpression(t *testing.T) {
	assert.Panics(t, func() { _ = dice.RollResult{Dice: []int{-2}}.String() })
}

func TestExpression_Bounds(t *testing.T) {
	cases := []struct {
		expr     string
		min, max int
	}{
		{"d20", 1, 20},
		{"-1d4", -4, -1},
		{"2d6+1d4+2", 5, 18},
		{"1d8-1d4", -3, 7},
		{"-3", -3, -3},
		{"4-2d6", -8, 2},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			e, err := dice.Parse(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.min, e.Min())
			assert.Equal(t, tc.max, e.Max())
		})
	}
}

func TestExpression_BoundsReachedByExtremeFaces(t *testing.T) {
	e := dice.MustParse("2d6-1d4+2")
	low := dice.Roll(e, &scriptedSrc{vals: []int{0, 0, 3}})
	high := dice.Roll(e, &scriptedSrc{vals: []int{5, 5, 0}})
	assert.Equal(t, e.Min(), low.Total())
	assert.Equal(t, e.Max(), high.Total())
}

// Every die carries its term's sign, and the dice account for every term.
func TestProperty_SignedTermsRoll(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`-?[1-3]d(4|6|8)([+-][1-3]d(4|6|8)){0,2}([+-][0-9])?`).Draw(rt, "expr")
		e, err := dice.Parse(expr)
		require.NoError(rt, err)
		res := dice.Roll(e, dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))

		sum := res.Modifier
		for _, d := range res.Dice {
			sum += d
		}
		assert.Equal(rt, sum, res.Total())

		i := 0
		for _, term := range e.Terms {
			for n := 0; n < term.Count; n++ {
				require.Less(rt, i, len(res.Dice))
				d := res.Dice[i] * term.Sign
				assert.GreaterOrEqual(rt, d, 1, "die %d of %q", i, expr)
				assert.LessOrEqual(rt, d, term.Sides, "die %d of %q", i, expr)
				i++
			}
		}
		assert.Equal(rt, i, len(res.Dice))
		assert.LessOrEqual(rt, e.Min(), e.Max())
	})
}

func TestSources_RejectEmptyRange(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(-1) })
}

func TestProperty_SourcesStayInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(rt, "n")
		for _, src := range []dice.Source{dice.NewCryptoSource(), dice.NewSeededSource(rapid.Int64().Draw(rt, "seed"))} {
			v := src.Intn(n)
			assert.GreaterOrEqual(rt, v, 0)
			assert.Less(rt, v, n)
		}
	})
}

func TestProperty_SeededSourceReplays(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		a, b := dice.NewSeededSource(seed), dice.NewSeededSource(seed)
		first, err := dice.RollExpr("3d6-1d4+2", a)
		require.NoError(rt, err)
		second, err := dice.RollExpr("3d6-1d4+2", b)
		require.NoError(rt, err)
		assert.Equal(rt, first, second)
	})
}
