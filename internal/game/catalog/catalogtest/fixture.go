// Package catalogtest provides a small, fully valid reference data set for tests.
package catalogtest

import "github.com/cory-johannsen/delve/internal/game/catalog"

// Location and scene ids used by Source.
const (
	Tavern   = "The Gilded Flagon"
	Cellar   = "Flagon Cellar"
	Crypt    = "Forgotten Crypt"
	TavernID = "tavern"
	CellarID = "cellar"
	CryptID  = "crypt"
)

// Source returns a fresh fixture Source. Callers may modify it before Build.
func Source() catalog.Source {
	return catalog.Source{
		Weapons: []catalog.WeaponDef{
			{ID: "dagger", Name: "Dagger", DamageDice: "1d4", Price: 2},
			{ID: "longsword", Name: "Longsword", DamageDice: "1d8", Price: 15},
			{ID: "quarterstaff", Name: "Quarterstaff", DamageDice: "1d6", Price: 2},
			{ID: "greataxe", Name: "Greataxe", DamageDice: "1d12", Price: 30},
		},
		Armor: []catalog.ArmorDef{
			{ID: "leather_armor", Name: "Leather Armor", AC: 11, Price: 10},
			{ID: "chain_mail", Name: "Chain Mail", AC: 16, Price: 75},
			{ID: "wooden_shield", Name: "Wooden Shield", AC: 2, Shield: true, Price: 10},
		},
		Items: []catalog.ItemDef{
			{ID: "healing_potion", Name: "Healing Potion", Type: catalog.TypePotion, HealDice: "2d4+2", Price: 50},
			{ID: "bandage", Name: "Bandage", Type: catalog.TypeMisc, HealDice: "1d4", Price: 2},
			{ID: "rusty_key", Name: "Rusty Key", Type: catalog.TypeKey, Price: 1},
			{ID: "rat_tail", Name: "Rat Tail", Type: catalog.TypeMaterial, Price: 1},
			{ID: "torch", Name: "Torch", Type: catalog.TypeMisc, Price: 1},
		},
		Spells: []catalog.SpellDef{
			{ID: "fire_bolt", Name: "Fire Bolt", Level: 0, Mechanics: &catalog.SpellMechanics{
				Kind: catalog.MechanicsAttack, Scaling: catalog.ScaleCharacterLevel, Dice: map[int]string{1: "1d10", 5: "2d10"},
			}},
			{ID: "sacred_flame", Name: "Sacred Flame", Level: 0, Mechanics: &catalog.SpellMechanics{
				Kind: catalog.MechanicsSave, Scaling: catalog.ScaleCharacterLevel, SaveAbility: "dexterity", Dice: map[int]string{1: "1d8"},
			}},
			{ID: "burning_hands", Name: "Burning Hands", Level: 1, Mechanics: &catalog.SpellMechanics{
				Kind: catalog.MechanicsSave, Scaling: catalog.ScaleSlotLevel, SaveAbility: "dexterity", HalfOnSave: true, Dice: map[int]string{1: "3d6"},
			}},
			{ID: "cure_wounds", Name: "Cure Wounds", Level: 1, Mechanics: &catalog.SpellMechanics{
				Kind: catalog.MechanicsHeal, Scaling: catalog.ScaleSlotLevel, Dice: map[int]string{1: "1d8+3"},
			}},
			{ID: "thunder_strike", Name: "Thunder Strike", Level: 1, Mechanics: &catalog.SpellMechanics{
				Kind: catalog.MechanicsDamage, Scaling: catalog.ScaleSlotLevel, Dice: map[int]string{1: "2d6"},
			}},
			{ID: "light", Name: "Light", Level: 0},
			{ID: "magic_missile", Name: "Magic Missile", Level: 1},
			{ID: "shield", Name: "Shield", Level: 1},
			{ID: "sleep", Name: "Sleep", Level: 1},
		},
		Monsters: []catalog.MonsterDef{
			{ID: "rat", Name: "Rat", HP: 7, AC: 12, AttackBonus: 3, DamageDice: "1d4+1", XP: 25, Loot: "rat"},
			{ID: "skeleton", Name: "Skeleton", HP: 13, AC: 13, AttackBonus: 4, DamageDice: "1d6+2", XP: 50},
		},
		Loot: []catalog.LootTable{
			{ID: "rat", Coins: map[string]string{"gold": "1d4"}, Entries: []catalog.LootEntry{
				{Item: "rat_tail", Weight: 3, Quantity: "1"},
				{Weight: 1},
			}},
			{ID: "rat_nest", Coins: map[string]string{"gold": "2"}, Entries: []catalog.LootEntry{
				{Item: "rusty_key", Weight: 1, Quantity: "1"},
			}},
		},
		Scenes: []catalog.SceneDef{
			{ID: TavernID, Location: Tavern, Biome: "town",
				Descriptions: []string{"A smoky common room.", "A crowded common room."},
				Exits:        []catalog.SceneExit{{Verbs: []string{"descend", "go down"}, Target: CellarID}}},
			{ID: CellarID, Location: Cellar, Biome: "dungeon",
				Descriptions: []string{"Damp barrels line the walls."},
				OnEnter:      catalog.SceneEnter{Log: []string{"Red eyes glint between the barrels."}, Spawns: []string{"rat"}},
				Exits: []catalog.SceneExit{
					{Verbs: []string{"climb", "go up"}, Target: TavernID},
					{Verbs: []string{"unlock"}, Consumes: "rusty_key", Target: CryptID},
				},
				OnComplete: &catalog.SceneComplete{Flags: []string{"cellar_cleared"}, XP: 25, Loot: "rat_nest"}},
			{ID: CryptID, Location: Crypt, Biome: "crypt",
				Descriptions: []string{"Stone sarcophagi crowd a vaulted chamber."},
				RequireFlags: []string{"cellar_cleared"},
				OnEnter:      catalog.SceneEnter{Spawns: []string{"skeleton"}},
				Exits:        []catalog.SceneExit{{Verbs: []string{"go up"}, Target: CellarID}}},
		},
		Traders: []catalog.TraderDef{
			{ID: "marta", Name: "Marta", Location: Tavern, BuybackRate: 0.5, Stock: []catalog.TraderStock{
				{Item: "healing_potion", Price: 50},
				{Item: "dagger", Price: 2},
				{Item: "chain_mail", Price: 75},
				{Item: "wooden_shield", Price: 10},
				{Item: "torch", Price: 1},
			}},
		},
		Classes: []catalog.ClassDef{
			{ID: "fighter", Name: "Fighter", HP: 12, Gold: 15, KeyAbility: "strength",
				AbilityScores:  map[string]int{"strength": 16, "dexterity": 12, "constitution": 14, "intelligence": 10, "wisdom": 10, "charisma": 8},
				Skills:         []string{"athletics"},
				AllowedWeapons: []string{"dagger", "longsword", "greataxe"},
				Inventory: []catalog.StarterItem{
					{Item: "longsword", Quantity: 1, Equipped: true},
					{Item: "leather_armor", Quantity: 1, Equipped: true},
					{Item: "wooden_shield", Quantity: 1, Equipped: true},
					{Item: "bandage", Quantity: 2},
				},
				StartScene: TavernID},
			{ID: "wizard", Name: "Wizard", HP: 8, Gold: 10, KeyAbility: "intelligence",
				AbilityScores:  map[string]int{"strength": 8, "dexterity": 14, "constitution": 12, "intelligence": 16, "wisdom": 12, "charisma": 10},
				Skills:         []string{"arcana"},
				AllowedWeapons: []string{"dagger", "quarterstaff"},
				Inventory:      []catalog.StarterItem{{Item: "quarterstaff", Quantity: 1, Equipped: true}},
				KnownSpells:    []string{"Fire Bolt", "Sacred Flame", "Light", "Magic Missile", "Shield", "Burning Hands", "Cure Wounds", "Thunder Strike", "Sleep"},
				PreparedSpells: []string{"Magic Missile", "Shield", "Burning Hands", "Cure Wounds", "Thunder Strike", "Sleep"},
				SpellSlots:     map[string]int{"1": 2},
				StartScene:     TavernID},
		},
		Levels: []catalog.LevelDef{
			{Level: 1, XPRequired: 0},
			{Level: 2, XPRequired: 300, HPGain: 6},
			{Level: 3, XPRequired: 900, HPGain: 6},
		},
		Stunts: []catalog.StuntTemplate{
			{ID: "leap", Category: catalog.StuntPhysical, Keywords: []string{"leap", "jump"}, PrimarySkill: "acrobatics", Difficulty: "moderate",
				Success: catalog.StuntOutcome{Effect: catalog.EffectDamageEdge, Value: 2}, Failure: catalog.StuntOutcome{Effect: catalog.EffectSelfDamage, Value: 2}},
			{ID: "shove", Category: catalog.StuntCombatTrick, Keywords: []string{"shove", "trip"}, PrimarySkill: "athletics", Difficulty: "moderate",
				Success: catalog.StuntOutcome{Effect: catalog.EffectKnockProne}, Failure: catalog.StuntOutcome{Effect: catalog.EffectLostPosition}},
			{ID: "recall_lore", Category: catalog.StuntMental, Keywords: []string{"recall", "study"}, PrimarySkill: "arcana", Difficulty: "easy",
				Success: catalog.StuntOutcome{Effect: catalog.EffectStoryFlag}, Failure: catalog.StuntOutcome{Effect: catalog.EffectNone}},
			{ID: "taunt", Category: catalog.StuntSocial, Keywords: []string{"taunt", "threaten"}, PrimarySkill: "intimidation", Difficulty: "hard",
				Success: catalog.StuntOutcome{Effect: catalog.EffectKnockProne}, Failure: catalog.StuntOutcome{Effect: catalog.EffectAlertedEnemies}},
		},
	}
}

// Catalog builds Source. It panics if the fixture fails validation.
func Catalog() *catalog.Catalog {
	c, err := catalog.Build(Source())
	if err != nil {
		panic(err)
	}
	return c
}
