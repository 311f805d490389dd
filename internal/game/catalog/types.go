// Package catalog holds the read-only reference data the engine resolves turns
// against: weapons, armor, items, spells, monsters, loot tables, scenes, traders,
// classes, the level table, and stunt templates.
//
// A Catalog is built once at startup, validated, and then shared by reference.
// Nothing in the engine mutates it.
package catalog

// WeaponDef defines a weapon's damage and price.
type WeaponDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	DamageDice string `yaml:"damage_dice"`
	Price      int    `yaml:"price"`
}

// ArmorDef defines body armor or a shield. For body armor AC is the base armor
// class it grants; for a shield AC is the bonus added on top.
type ArmorDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	AC     int    `yaml:"ac"`
	Shield bool   `yaml:"shield"`
	Price  int    `yaml:"price"`
}

// ItemDef defines a non-equipment item: consumables, scrolls, keys, materials.
type ItemDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	HealDice string `yaml:"heal_dice"`
	Price    int    `yaml:"price"`
}

// Mechanics kinds for SpellMechanics.Kind.
const (
	MechanicsHeal   = "heal"
	MechanicsAttack = "attack"
	MechanicsSave   = "save"
	MechanicsDamage = "damage"
)

// Scaling keys for SpellMechanics.Scaling.
const (
	ScaleCharacterLevel = "character_level"
	ScaleSlotLevel      = "slot_level"
)

// SpellMechanics describes how a damage or heal spell resolves. Dice is keyed by
// the character level or slot level (per Scaling) at which each entry applies;
// the highest key not exceeding the caster's level wins.
type SpellMechanics struct {
	Kind        string         `yaml:"kind"`
	Scaling     string         `yaml:"scaling"`
	Dice        map[int]string `yaml:"dice"`
	SaveAbility string         `yaml:"save_ability"`
	HalfOnSave  bool           `yaml:"half_on_save"`
}

// DiceAt returns the dice expression applicable at level.
//
// Postcondition: Returns ("", false) when no entry has a key <= level.
func (m *SpellMechanics) DiceAt(level int) (string, bool) {
	best := -1
	for k := range m.Dice {
		if k <= level && k > best {
			best = k
		}
	}
	if best < 0 {
		return "", false
	}
	return m.Dice[best], true
}

// SpellDef defines a spell. Level 0 is a cantrip.
type SpellDef struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Level     int             `yaml:"level"`
	Mechanics *SpellMechanics `yaml:"mechanics"`
}

// IsCantrip reports whether the spell is castable without a slot.
func (s *SpellDef) IsCantrip() bool { return s.Level == 0 }

// MonsterDef is a monster stat block.
type MonsterDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	HP          int    `yaml:"hp"`
	AC          int    `yaml:"ac"`
	AttackBonus int    `yaml:"attack_bonus"`
	DamageDice  string `yaml:"damage_dice"`
	XP          int    `yaml:"xp"`
	Loot        string `yaml:"loot"`
}

// LootEntry is one weighted drop. An empty Item is a weighted "nothing" slot.
type LootEntry struct {
	Item     string `yaml:"item"`
	Weight   int    `yaml:"weight"`
	Quantity string `yaml:"quantity"`
}

// LootTable defines coin dice per denomination and weighted item entries.
type LootTable struct {
	ID      string            `yaml:"id"`
	Coins   map[string]string `yaml:"coins"`
	Entries []LootEntry       `yaml:"entries"`
}

// TotalWeight returns the sum of entry weights.
func (lt *LootTable) TotalWeight() int {
	total := 0
	for _, e := range lt.Entries {
		total += e.Weight
	}
	return total
}

// SceneEnter holds the facts logged and the monsters spawned on entering a scene.
type SceneEnter struct {
	Log    []string `yaml:"log"`
	Spawns []string `yaml:"spawns"`
}

// SceneExit leads from one scene to another when the action text contains one
// of Verbs. Consumes, when set, names an item the player must hold and loses.
type SceneExit struct {
	Verbs    []string `yaml:"verbs"`
	Consumes string   `yaml:"consumes"`
	Target   string   `yaml:"target"`
}

// SceneComplete holds the one-time rewards granted once a scene is cleared.
type SceneComplete struct {
	Flags []string `yaml:"flags"`
	XP    int      `yaml:"xp"`
	Loot  string   `yaml:"loot"`
}

// SceneDef is one node of the story graph.
type SceneDef struct {
	ID           string         `yaml:"id"`
	Location     string         `yaml:"location"`
	Biome        string         `yaml:"biome"`
	Descriptions []string       `yaml:"descriptions"`
	RequireFlags []string       `yaml:"require_flags"`
	OnEnter      SceneEnter     `yaml:"on_enter"`
	Exits        []SceneExit    `yaml:"exits"`
	OnComplete   *SceneComplete `yaml:"on_complete"`
	ScriptDir    string         `yaml:"script_dir"`
}

// TraderStock is one item a trader sells.
type TraderStock struct {
	Item  string `yaml:"item"`
	Price int    `yaml:"price"`
}

// TraderDef is a merchant stationed at a location.
type TraderDef struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Location    string        `yaml:"location"`
	BuybackRate float64       `yaml:"buyback_rate"`
	Stock       []TraderStock `yaml:"stock"`
}

// StarterItem is one stack in a class's starting inventory.
type StarterItem struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
	Equipped bool   `yaml:"equipped"`
}

// ClassDef is a playable archetype and its starting character.
type ClassDef struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	HP             int            `yaml:"hp"`
	Gold           int            `yaml:"gold"`
	KeyAbility     string         `yaml:"key_ability"`
	AbilityScores  map[string]int `yaml:"ability_scores"`
	Skills         []string       `yaml:"skills"`
	AllowedWeapons []string       `yaml:"allowed_weapons"`
	Inventory      []StarterItem  `yaml:"inventory"`
	KnownSpells    []string       `yaml:"known_spells"`
	PreparedSpells []string       `yaml:"prepared_spells"`
	SpellSlots     map[string]int `yaml:"spell_slots"`
	StartScene     string         `yaml:"start_scene"`
}

// LevelDef is one row of the progression table.
type LevelDef struct {
	Level      int `yaml:"level"`
	XPRequired int `yaml:"xp_required"`
	HPGain     int `yaml:"hp_gain"`
}

// Stunt categories.
const (
	StuntPhysical    = "physical"
	StuntMental      = "mental"
	StuntSocial      = "social"
	StuntExploration = "exploration"
	StuntCombatTrick = "combat_trick"
)

// Stunt effect tags.
const (
	EffectNone           = "none"
	EffectKnockProne     = "knock_prone"
	EffectDamageEdge     = "damage_edge"
	EffectStoryFlag      = "story_flag"
	EffectSelfDamage     = "self_damage"
	EffectLostPosition   = "lost_position"
	EffectAlertedEnemies = "alerted_enemies"
)

// StuntOutcome is the single mechanical consequence of one stunt branch.
type StuntOutcome struct {
	Effect string `yaml:"effect"`
	Value  int    `yaml:"value"`
}

// StuntTemplate classifies a free-form skill action and fixes its consequences.
type StuntTemplate struct {
	ID           string       `yaml:"id"`
	Category     string       `yaml:"category"`
	Keywords     []string     `yaml:"keywords"`
	PrimarySkill string       `yaml:"primary_skill"`
	Difficulty   string       `yaml:"difficulty"`
	Success      StuntOutcome `yaml:"success"`
	Failure      StuntOutcome `yaml:"failure"`
}

// DifficultyDC maps stunt difficulty names to their DC.
var DifficultyDC = map[string]int{
	"easy":     10,
	"moderate": 13,
	"hard":     16,
	"deadly":   20,
}
