package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIncompatibleSave is returned when persisted bytes cannot be decoded into a
// valid GameState. Callers must treat such a save as unrecoverable.
var ErrIncompatibleSave = errors.New("state: incompatible save")

// Serialize encodes s for persistence.
func Serialize(s *GameState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serializing game state: %w", err)
	}
	return data, nil
}

// Hydrate decodes a persisted state, backfills defaultable fields, and validates it.
//
// Postcondition: Returns a state for which Validate() is nil, or an error
// wrapping ErrIncompatibleSave. There is no partial recovery.
func Hydrate(data []byte) (*GameState, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s GameState
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleSave, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after state document", ErrIncompatibleSave)
	}
	Backfill(&s)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleSave, err)
	}
	return &s, nil
}

// Backfill fills fields that older saves may lack with their defaults.
//
// Postcondition: every slice and map field is non-nil, every ability in
// Abilities has a score, and Level is at least 1.
func Backfill(s *GameState) {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.AbilityScores == nil {
		s.AbilityScores = make(map[string]int, len(Abilities))
	}
	for _, a := range Abilities {
		if _, ok := s.AbilityScores[a]; !ok {
			s.AbilityScores[a] = 10
		}
	}
	if s.Inventory == nil {
		s.Inventory = []Item{}
	}
	if s.NearbyEntities == nil {
		s.NearbyEntities = []Entity{}
	}
	for i := range s.NearbyEntities {
		if s.NearbyEntities[i].Effects == nil {
			s.NearbyEntities[i].Effects = []Effect{}
		}
	}
	if s.ActiveEffects == nil {
		s.ActiveEffects = []Effect{}
	}
	if s.KnownSpells == nil {
		s.KnownSpells = []string{}
	}
	if s.PreparedSpells == nil {
		s.PreparedSpells = []string{}
	}
	if s.SpellSlots == nil {
		s.SpellSlots = map[string]SpellSlot{}
	}
	if s.StoryFlags == nil {
		s.StoryFlags = []string{}
	}
	if s.LocationHistory == nil {
		s.LocationHistory = []string{}
	}
	if s.RoomRegistry == nil {
		s.RoomRegistry = map[string]RoomEntry{}
	}
	if s.SceneRegistry == nil {
		s.SceneRegistry = map[string]string{}
	}
	if s.LastRolls == nil {
		s.LastRolls = []int{}
	}
	if s.Log == nil {
		s.Log = []LogEntry{}
	}
	if s.Level < 1 {
		s.Level = 1
	}
}
