package narration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/delve/internal/game/narration"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

func TestSelect_Table(t *testing.T) {
	cases := []struct {
		name  string
		o     turn.Outcome
		sheet bool
		want  turn.Mode
	}{
		{"sheet beats everything", turn.Outcome{Kill: true, Override: turn.ModeInvestigate}, true, turn.ModeSheet},
		{"override beats kill", turn.Outcome{Kill: true, Override: turn.ModeGeneral}, false, turn.ModeGeneral},
		{"kill beats hit", turn.Outcome{Kill: true, Hit: true}, false, turn.ModeCombatKill},
		{"hit beats miss", turn.Outcome{Hit: true, Miss: true}, false, turn.ModeCombatHit},
		{"miss beats loot", turn.Outcome{Miss: true, LootFound: true}, false, turn.ModeCombatMiss},
		{"loot beats search found", turn.Outcome{LootFound: true, SearchFound: true}, false, turn.ModeLootGain},
		{"search found beats investigate", turn.Outcome{SearchFound: true, Investigated: true}, false, turn.ModeSearchFound},
		{"investigate beats room intro", turn.Outcome{Investigated: true, NewLocation: true}, false, turn.ModeInvestigate},
		{"room intro beats empty search", turn.Outcome{NewLocation: true, SearchAttempted: true}, false, turn.ModeRoomIntro},
		{"empty search", turn.Outcome{SearchAttempted: true}, false, turn.ModeSearchEmpty},
		{"empty loot", turn.Outcome{LootAttempted: true}, false, turn.ModeSearchEmpty},
		{"nothing", turn.Outcome{}, false, turn.ModeGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := tc.o
			assert.Equal(t, tc.want, narration.Select(&o, tc.sheet))
		})
	}
}

func TestRules_Order(t *testing.T) {
	names := make([]string, 0, len(narration.Rules))
	for _, r := range narration.Rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"sheet", "override", "kill", "hit", "miss", "loot_found",
		"search_found", "investigate", "new_location", "search_empty", "general",
	}, names)
}

func TestProperty_SelectIsTotal(t *testing.T) {
	valid := map[turn.Mode]bool{
		turn.ModeRoomIntro: true, turn.ModeCombatHit: true, turn.ModeCombatMiss: true,
		turn.ModeCombatKill: true, turn.ModeSearchFound: true, turn.ModeSearchEmpty: true,
		turn.ModeLootGain: true, turn.ModeInvestigate: true, turn.ModeGeneral: true, turn.ModeSheet: true,
	}
	rapid.Check(t, func(rt *rapid.T) {
		o := turn.Outcome{
			Hit:             rapid.Bool().Draw(rt, "hit"),
			Miss:            rapid.Bool().Draw(rt, "miss"),
			Kill:            rapid.Bool().Draw(rt, "kill"),
			LootAttempted:   rapid.Bool().Draw(rt, "lootAttempted"),
			LootFound:       rapid.Bool().Draw(rt, "lootFound"),
			SearchAttempted: rapid.Bool().Draw(rt, "searchAttempted"),
			SearchFound:     rapid.Bool().Draw(rt, "searchFound"),
			Investigated:    rapid.Bool().Draw(rt, "investigated"),
			NewLocation:     rapid.Bool().Draw(rt, "newLocation"),
		}
		m := narration.Select(&o, rapid.Bool().Draw(rt, "sheet"))
		if !valid[m] {
			rt.Fatalf("invalid mode %q", m)
		}
	})
}

func TestSilent(t *testing.T) {
	flavor, err := narration.Silent.Narrate(context.Background(), narration.Request{Mode: turn.ModeGeneral})
	require.NoError(t, err)
	assert.Empty(t, flavor)
}
