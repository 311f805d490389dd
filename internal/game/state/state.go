// Package state defines the persisted GameState aggregate and the invariants
// every resolved turn must preserve.
package state

import (
	"strings"
	"time"
)

// Item types.
const (
	ItemWeapon   = "weapon"
	ItemArmor    = "armor"
	ItemPotion   = "potion"
	ItemScroll   = "scroll"
	ItemMisc     = "misc"
	ItemFood     = "food"
	ItemMaterial = "material"
	ItemKey      = "key"
)

var itemTypes = map[string]bool{
	ItemWeapon: true, ItemArmor: true, ItemPotion: true, ItemScroll: true,
	ItemMisc: true, ItemFood: true, ItemMaterial: true, ItemKey: true,
}

// Entity statuses.
const (
	StatusAlive   = "alive"
	StatusDead    = "dead"
	StatusFleeing = "fleeing"
	StatusObject  = "object"
)

var entityStatuses = map[string]bool{
	StatusAlive: true, StatusDead: true, StatusFleeing: true, StatusObject: true,
}

// CopperPerGold is the number of copper pieces in one gold piece.
const CopperPerGold = 100

// LootedSuffix marks a corpse that has already been searched.
const LootedSuffix = " (looted)"

// Item is one inventory stack.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Equipped bool   `json:"equipped"`
}

// IsShield reports whether the item occupies the shield slot rather than the
// body armor slot.
func (it Item) IsShield() bool {
	return it.Type == ItemArmor && strings.Contains(strings.ToLower(it.Name), "shield")
}

// Effect is a timed modifier. ExpiresAtTurn 0 means the effect never expires.
type Effect struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Value         int    `json:"value,omitempty"`
	ExpiresAtTurn int    `json:"expiresAtTurn,omitempty"`
}

// Entity is a creature or object near the player.
type Entity struct {
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	HP          int      `json:"hp"`
	MaxHP       int      `json:"maxHp"`
	AC          int      `json:"ac"`
	AttackBonus int      `json:"attackBonus"`
	DamageDice  string   `json:"damageDice"`
	Effects     []Effect `json:"effects"`
}

// IsAlive reports whether the entity can still fight.
func (e Entity) IsAlive() bool { return e.Status == StatusAlive }

// IsLooted reports whether the corpse has already been searched.
func (e Entity) IsLooted() bool { return strings.HasSuffix(e.Name, LootedSuffix) }

// BaseName returns the entity name without the looted marker.
func (e Entity) BaseName() string { return strings.TrimSuffix(e.Name, LootedSuffix) }

// SpellSlot tracks the casting resource for one slot level.
type SpellSlot struct {
	Max     int `json:"max"`
	Current int `json:"current"`
}

// RoomEntry memoizes what the player saw at a location.
type RoomEntry struct {
	Description string `json:"description"`
	ArtKey      string `json:"artKey,omitempty"`
}

// LogEntry is the structured record of one resolved turn.
type LogEntry struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Summary   string    `json:"summary"`
	Flavor    string    `json:"flavor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GameState is the root aggregate persisted between turns.
//
// A GameState is owned by the turn orchestrator for the duration of one turn
// and must not be mutated anywhere else.
type GameState struct {
	Name           string `json:"name"`
	CharacterClass string `json:"characterClass"`

	HP          int `json:"hp"`
	MaxHP       int `json:"maxHp"`
	AC          int `json:"ac"`
	TempACBonus int `json:"tempAcBonus"`
	Gold        int `json:"gold"`
	// Copper is loose change worth less than one gold piece.
	Copper int `json:"copper,omitempty"`
	Level  int `json:"level"`
	XP     int `json:"xp"`
	// XPToNext is the requirement for Level+1, or 0 at the level cap.
	XPToNext int `json:"xpToNext,omitempty"`

	Skills        []string       `json:"skills"`
	AbilityScores map[string]int `json:"abilityScores"`

	Inventory      []Item   `json:"inventory"`
	NearbyEntities []Entity `json:"nearbyEntities"`
	ActiveEffects  []Effect `json:"activeEffects"`

	KnownSpells    []string             `json:"knownSpells"`
	PreparedSpells []string             `json:"preparedSpells"`
	SpellSlots     map[string]SpellSlot `json:"spellSlots"`

	Location        string   `json:"location"`
	StorySceneID    string   `json:"storySceneId"`
	StoryFlags      []string `json:"storyFlags"`
	LocationHistory []string `json:"locationHistory"`

	RoomRegistry  map[string]RoomEntry `json:"roomRegistry"`
	SceneRegistry map[string]string    `json:"sceneRegistry"`

	LastRolls         []int      `json:"lastRolls"`
	LastActionSummary string     `json:"lastActionSummary"`
	Log               []LogEntry `json:"log"`
	TurnCounter       int        `json:"turnCounter"`
	WorldSeed         int64      `json:"worldSeed"`
	IsCombatActive    bool       `json:"isCombatActive"`
}

// Abilities are the six ability score keys every state carries.
var Abilities = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// HasFlag reports whether the story flag is set.
func (s *GameState) HasFlag(flag string) bool {
	for _, f := range s.StoryFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// SetFlag adds the story flag if it is not already present.
//
// Postcondition: HasFlag(flag) is true and the flag appears exactly once.
func (s *GameState) SetFlag(flag string) {
	if !s.HasFlag(flag) {
		s.StoryFlags = append(s.StoryFlags, flag)
	}
}

// HasSkill reports whether the player is trained in skill (case-insensitive).
func (s *GameState) HasSkill(skill string) bool {
	for _, sk := range s.Skills {
		if strings.EqualFold(sk, skill) {
			return true
		}
	}
	return false
}

// AbilityMod returns the modifier for the named ability score.
// Uses floor division so that odd scores below 10 round toward negative infinity.
func (s *GameState) AbilityMod(ability string) int {
	score, ok := s.AbilityScores[ability]
	if !ok {
		score = 10
	}
	diff := score - 10
	if diff < 0 && diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// ProficiencyBonus returns the proficiency bonus for the current level.
//
// Postcondition: Returns 2 + (Level-1)/4, minimum 2.
func (s *GameState) ProficiencyBonus() int {
	if s.Level < 1 {
		return 2
	}
	return 2 + (s.Level-1)/4
}

// LivingThreats returns the number of alive entities.
func (s *GameState) LivingThreats() int {
	n := 0
	for _, e := range s.NearbyEntities {
		if e.IsAlive() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy. Mutating the copy never affects the receiver.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Skills = cloneSlice(s.Skills)
	c.AbilityScores = cloneMap(s.AbilityScores)
	c.Inventory = cloneSlice(s.Inventory)
	if s.NearbyEntities != nil {
		c.NearbyEntities = make([]Entity, len(s.NearbyEntities))
		for i, e := range s.NearbyEntities {
			e.Effects = cloneSlice(e.Effects)
			c.NearbyEntities[i] = e
		}
	}
	c.ActiveEffects = cloneSlice(s.ActiveEffects)
	c.KnownSpells = cloneSlice(s.KnownSpells)
	c.PreparedSpells = cloneSlice(s.PreparedSpells)
	c.SpellSlots = cloneMap(s.SpellSlots)
	c.StoryFlags = cloneSlice(s.StoryFlags)
	c.LocationHistory = cloneSlice(s.LocationHistory)
	c.RoomRegistry = cloneMap(s.RoomRegistry)
	c.SceneRegistry = cloneMap(s.SceneRegistry)
	c.LastRolls = cloneSlice(s.LastRolls)
	c.Log = cloneSlice(s.Log)
	return &c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
