// Package scene applies movement through the story graph: exits, entry
// spawns, completion rewards, and the memoized room descriptions used by look.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// DefaultHistoryWindow is the number of trailing locations kept in
// GameState.LocationHistory when no window is configured.
const DefaultHistoryWindow = 20

// CompleteFlagPrefix prefixes the story flag that marks a scene's completion
// rewards as granted.
const CompleteFlagPrefix = "scene_complete:"

// Hooks supplies scripted facts when a scene is entered. A nil Hooks is valid.
type Hooks interface {
	// OnEnter returns extra facts for entering sceneID. Script failures yield
	// no facts rather than an error.
	OnEnter(sceneID, location string) []string
}

// Manager applies scene transitions against a catalog.
type Manager struct {
	hooks         Hooks
	historyWindow int
}

// NewManager creates a Manager.
//
// Precondition: historyWindow >= 0; 0 uses DefaultHistoryWindow. hooks may be nil.
func NewManager(hooks Hooks, historyWindow int) *Manager {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Manager{hooks: hooks, historyWindow: historyWindow}
}

// Current returns the scene the player is in: by story scene id first, then
// by location.
func Current(cat *catalog.Catalog, s *state.GameState) (*catalog.SceneDef, bool) {
	if s.StorySceneID != "" {
		if sc, ok := cat.Scene(s.StorySceneID); ok {
			return sc, true
		}
	}
	for _, sc := range cat.Scenes() {
		if catalog.Key(sc.Location) == catalog.Key(s.Location) {
			return sc, true
		}
	}
	return nil, false
}

// Spawn builds a living entity from a monster stat block.
//
// Postcondition: returns an error wrapping catalog.ErrUnknownMonster for an
// unknown id.
func Spawn(cat *catalog.Catalog, monsterID string) (state.Entity, error) {
	m, err := cat.Monster(monsterID)
	if err != nil {
		return state.Entity{}, err
	}
	return state.Entity{
		Name:        m.Name,
		Status:      state.StatusAlive,
		HP:          m.HP,
		MaxHP:       m.HP,
		AC:          m.AC,
		AttackBonus: m.AttackBonus,
		DamageDice:  m.DamageDice,
		Effects:     []state.Effect{},
	}, nil
}

// Enter moves the player into sc: its spawns replace the nearby entities, the
// location and scene id update, the trail grows, and the on-enter log and any
// scripted facts are recorded.
//
// Postcondition: len(s.LocationHistory) <= the history window. Returns an
// error only for a spawn with no stat block.
func (m *Manager) Enter(c *turn.Context, sc *catalog.SceneDef, out *turn.Outcome) error {
	s := c.State
	spawned := make([]state.Entity, 0, len(sc.OnEnter.Spawns))
	for _, id := range sc.OnEnter.Spawns {
		e, err := Spawn(c.Catalog, id)
		if err != nil {
			return fmt.Errorf("entering scene %q: %w", sc.ID, err)
		}
		spawned = append(spawned, e)
	}
	s.NearbyEntities = spawned
	s.Location = sc.Location
	s.StorySceneID = sc.ID
	s.LocationHistory = append(s.LocationHistory, sc.Location)
	if over := len(s.LocationHistory) - m.historyWindow; over > 0 {
		s.LocationHistory = append([]string(nil), s.LocationHistory[over:]...)
	}
	out.NewLocation = true
	out.Add("You arrive at %s.", sc.Location)
	out.Add("%s", Describe(s, sc).Description)
	for _, line := range sc.OnEnter.Log {
		out.Add("%s", line)
	}
	if m.hooks != nil {
		for _, line := range m.hooks.OnEnter(sc.ID, sc.Location) {
			out.Add("%s", line)
		}
	}
	for _, e := range spawned {
		out.Add("%s", Sighting(e))
	}
	c.Logger.Debug("entered scene", zap.String("scene", sc.ID), zap.Int("spawns", len(spawned)))
	return nil
}
