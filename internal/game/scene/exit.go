package scene

import (
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/intent"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// MatchExit returns the first exit of sc whose verb keywords appear in raw.
func MatchExit(sc *catalog.SceneDef, raw string) (*catalog.SceneExit, bool) {
	for i := range sc.Exits {
		for _, verb := range sc.Exits[i].Verbs {
			if intent.Mentions(raw, verb) {
				return &sc.Exits[i], true
			}
		}
	}
	return nil, false
}

// Travel resolves raw against the exits of the player's current scene.
//
// Postcondition: matched is false when no exit verb appears in raw, leaving
// out untouched. A matched exit is refused, with no state change, while a
// living threat remains, when a consumed item is missing, or when the target
// scene's required flags are unset. Returns an error only for broken
// reference data.
func (m *Manager) Travel(c *turn.Context, raw string, out *turn.Outcome) (matched bool, err error) {
	s := c.State
	sc, ok := Current(c.Catalog, s)
	if !ok {
		return false, nil
	}
	exit, ok := MatchExit(sc, raw)
	if !ok {
		return false, nil
	}
	if n := s.LivingThreats(); n > 0 {
		out.Refuse("You can't leave yet: the threats here must be cleared first (%d remaining).", n)
		return true, nil
	}
	target, ok := c.Catalog.Scene(exit.Target)
	if !ok {
		out.Refuse("That way leads nowhere.")
		return true, nil
	}
	for _, flag := range target.RequireFlags {
		if !s.HasFlag(flag) {
			out.Refuse("The way to %s is barred for now.", target.Location)
			return true, nil
		}
	}
	if exit.Consumes != "" {
		info, _ := c.Catalog.Describe(exit.Consumes)
		if !inventory.Remove(s, exit.Consumes, 1) && !inventory.Remove(s, info.Name, 1) {
			out.Refuse("You need a %s to go that way.", info.Name)
			return true, nil
		}
		out.Add("You use the %s.", info.Name)
	}
	return true, m.Enter(c, target, out)
}
