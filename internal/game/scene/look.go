package scene

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// Threat levels used in art keys.
const (
	ThreatCalm    = "calm"
	ThreatHostile = "hostile"
)

// Variant picks one of n variants for location, stable for a given world seed.
//
// Precondition: n > 0.
func Variant(seed int64, location string, n int) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s", seed, strings.ToLower(location))
	return int(h.Sum32() % uint32(n))
}

// Threat returns the threat level of the player's surroundings.
func Threat(s *state.GameState) string {
	if s.LivingThreats() > 0 {
		return ThreatHostile
	}
	return ThreatCalm
}

// ArtKey returns the art cache key for a scene at a threat level.
func ArtKey(sc *catalog.SceneDef, threat string) string {
	biome := sc.Biome
	if biome == "" {
		biome = "unknown"
	}
	return fmt.Sprintf("%s/%s/%s", biome, sc.ID, threat)
}

// Describe returns the memoized room entry for sc, choosing and recording the
// description variant on first sight and the art key for the current threat.
//
// Postcondition: s.RoomRegistry[sc.Location] holds the returned entry.
func Describe(s *state.GameState, sc *catalog.SceneDef) state.RoomEntry {
	if s.RoomRegistry == nil {
		s.RoomRegistry = make(map[string]state.RoomEntry)
	}
	if s.SceneRegistry == nil {
		s.SceneRegistry = make(map[string]string)
	}
	entry, ok := s.RoomRegistry[sc.Location]
	if !ok || entry.Description == "" {
		entry.Description = sc.Location + "."
		if n := len(sc.Descriptions); n > 0 {
			entry.Description = sc.Descriptions[Variant(s.WorldSeed, sc.Location, n)]
		}
	}
	threat := Threat(s)
	entry.ArtKey = ArtKey(sc, threat)
	s.RoomRegistry[sc.Location] = entry
	s.SceneRegistry[sc.Location+":"+threat] = entry.ArtKey
	return entry
}

// Look records what the player sees: the room description and the visible
// entities. A target narrows the entity listing to matching names.
func Look(c *turn.Context, target string, out *turn.Outcome) {
	s := c.State
	sc, ok := Current(c.Catalog, s)
	if ok {
		out.Add("%s", Describe(s, sc).Description)
	} else {
		out.Add("You are at %s.", s.Location)
	}
	t := strings.ToLower(strings.TrimSpace(target))
	seen := 0
	for _, e := range s.NearbyEntities {
		if t != "" && !strings.Contains(strings.ToLower(e.Name), t) {
			continue
		}
		seen++
		out.Add("%s", Sighting(e))
	}
	if t != "" && seen == 0 {
		out.Add("You see no %s here.", target)
	}
	if ok && len(sc.Exits) > 0 && s.LivingThreats() == 0 {
		ways := make([]string, 0, len(sc.Exits))
		for _, ex := range sc.Exits {
			if len(ex.Verbs) > 0 {
				ways = append(ways, ex.Verbs[0])
			}
		}
		out.Add("From here you could %s.", strings.Join(ways, " or "))
	}
}

// Sighting returns the fact describing a visible entity.
func Sighting(e state.Entity) string {
	switch {
	case e.IsAlive():
		return fmt.Sprintf("A %s is here (%d/%d HP).", e.Name, e.HP, e.MaxHP)
	case e.Status == state.StatusDead:
		return fmt.Sprintf("The body of a %s lies here.", e.Name)
	case e.Status == state.StatusFleeing:
		return fmt.Sprintf("A %s is fleeing.", e.Name)
	default:
		return fmt.Sprintf("There is a %s here.", e.Name)
	}
}
