package scene

import (
	"github.com/cory-johannsen/delve/internal/game/economy"
	"github.com/cory-johannsen/delve/internal/game/progression"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// Cleared reports whether the player has defeated everything nearby: at least
// one entity lies dead and none is alive.
func Cleared(s *state.GameState) bool {
	dead := false
	for _, e := range s.NearbyEntities {
		if e.IsAlive() {
			return false
		}
		if e.Status == state.StatusDead {
			dead = true
		}
	}
	return dead
}

// Complete grants the current scene's completion rewards once the scene is
// cleared. Rewards are granted at most once per save.
//
// Postcondition: returns true iff rewards were granted this call; SearchFound
// is set when the completion loot produced anything.
func Complete(c *turn.Context, out *turn.Outcome) (bool, error) {
	s := c.State
	sc, ok := Current(c.Catalog, s)
	if !ok || sc.OnComplete == nil || !Cleared(s) {
		return false, nil
	}
	marker := CompleteFlagPrefix + sc.ID
	if s.HasFlag(marker) {
		return false, nil
	}
	s.SetFlag(marker)
	for _, f := range sc.OnComplete.Flags {
		s.SetFlag(f)
	}
	out.Add("%s is clear.", sc.Location)
	if sc.OnComplete.Loot != "" {
		res, err := economy.RollLoot(c, sc.OnComplete.Loot)
		if err != nil {
			return false, err
		}
		if !res.Empty() {
			economy.Grant(c, res, out)
			out.SearchFound = true
		}
	}
	if sc.OnComplete.XP > 0 {
		progression.Award(c, sc.OnComplete.XP, out)
	}
	return true, nil
}
