// Package progression awards experience and applies level-ups from the
// catalog's level table.
package progression

import (
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// XPToNext returns the XP requirement for level+1, or 0 at the level cap.
func XPToNext(cat *catalog.Catalog, level int) int {
	next, ok := cat.Level(level + 1)
	if !ok {
		return 0
	}
	return next.XPRequired
}

// Award adds xp to the player and levels up while the next requirement is met.
// Each level gained adds that level's HP gain to max HP and fully heals a
// living player. A fallen player stays at 0 HP.
//
// Precondition: xp >= 0.
// Postcondition: s.XPToNext reflects the requirement for s.Level+1; returns
// the number of levels gained.
func Award(c *turn.Context, xp int, out *turn.Outcome) int {
	s := c.State
	if xp > 0 {
		s.XP += xp
		out.XPGained += xp
		out.Add("You gain %d XP.", xp)
	}
	gained := apply(c.Catalog, s)
	for i := s.Level - gained + 1; i <= s.Level; i++ {
		out.Add("You reach level %d! Your maximum HP rises to %d.", i, hpAt(c.Catalog, s, i))
	}
	out.LevelsGained += gained
	return gained
}

// Sync recomputes XPToNext and applies any level-ups the current XP already
// earns. It is used after hydrating or seeding a state.
func Sync(cat *catalog.Catalog, s *state.GameState) int {
	return apply(cat, s)
}

func apply(cat *catalog.Catalog, s *state.GameState) int {
	gained := 0
	for {
		next, ok := cat.Level(s.Level + 1)
		if !ok || s.XP < next.XPRequired {
			break
		}
		s.Level = next.Level
		s.MaxHP += next.HPGain
		if s.HP > 0 {
			s.HP = s.MaxHP
		}
		gained++
	}
	s.XPToNext = XPToNext(cat, s.Level)
	return gained
}

// hpAt reconstructs max HP after reaching level from the current totals.
func hpAt(cat *catalog.Catalog, s *state.GameState, level int) int {
	hp := s.MaxHP
	for l := s.Level; l > level; l-- {
		if row, ok := cat.Level(l); ok {
			hp -= row.HPGain
		}
	}
	return hp
}
