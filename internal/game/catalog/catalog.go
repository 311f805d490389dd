package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/dice"
)

// ErrInvalid is wrapped by every Build validation failure.
var ErrInvalid = errors.New("catalog: invalid reference data")

// ErrUnknownMonster is returned when a monster is referenced by an id or name
// that no stat block defines.
var ErrUnknownMonster = errors.New("catalog: unknown monster")

// Item types carried in inventories.
const (
	TypeWeapon   = "weapon"
	TypeArmor    = "armor"
	TypePotion   = "potion"
	TypeScroll   = "scroll"
	TypeMisc     = "misc"
	TypeFood     = "food"
	TypeMaterial = "material"
	TypeKey      = "key"
)

var itemDefTypes = map[string]bool{
	TypePotion: true, TypeScroll: true, TypeMisc: true,
	TypeFood: true, TypeMaterial: true, TypeKey: true,
}

// Source is the raw reference data before validation and indexing.
type Source struct {
	Weapons  []WeaponDef
	Armor    []ArmorDef
	Items    []ItemDef
	Spells   []SpellDef
	Monsters []MonsterDef
	Loot     []LootTable
	Scenes   []SceneDef
	Traders  []TraderDef
	Classes  []ClassDef
	Levels   []LevelDef
	Stunts   []StuntTemplate
}

// ItemInfo is the catalog view of any inventory item, whatever its kind.
type ItemInfo struct {
	ID       string
	Name     string
	Type     string
	Price    int
	Shield   bool
	HealDice string
}

// Catalog is the validated, indexed, read-only reference data set.
type Catalog struct {
	weapons  map[string]*WeaponDef
	armor    map[string]*ArmorDef
	items    map[string]*ItemDef
	spells   map[string]*SpellDef
	monsters map[string]*MonsterDef
	loot     map[string]*LootTable
	scenes   map[string]*SceneDef
	traders  map[string]*TraderDef // keyed by location
	classes  map[string]*ClassDef
	levels   []LevelDef
	stunts   []StuntTemplate
}

// Key normalizes a name or id for case-insensitive lookup.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Build validates src and indexes it by id and name.
//
// Postcondition: Returns a Catalog, or an error wrapping ErrInvalid (and
// ErrUnknownMonster for dangling monster references) listing every violation.
func Build(src Source) (*Catalog, error) {
	c := &Catalog{
		weapons:  make(map[string]*WeaponDef),
		armor:    make(map[string]*ArmorDef),
		items:    make(map[string]*ItemDef),
		spells:   make(map[string]*SpellDef),
		monsters: make(map[string]*MonsterDef),
		loot:     make(map[string]*LootTable),
		scenes:   make(map[string]*SceneDef),
		traders:  make(map[string]*TraderDef),
		classes:  make(map[string]*ClassDef),
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	index := func(m map[string]bool, kind, id, name string) bool {
		if id == "" || name == "" {
			fail("%s %q: id and name must not be empty", kind, id)
			return false
		}
		for _, k := range []string{Key(id), Key(name)} {
			if m[k] {
				fail("%s %q: duplicate id or name %q", kind, id, k)
				return false
			}
		}
		m[Key(id)], m[Key(name)] = true, true
		return true
	}

	// Weapons, armor and items share one name space so inventory lookups are unambiguous.
	gear := make(map[string]bool)
	for i := range src.Weapons {
		w := &src.Weapons[i]
		if !index(gear, "weapon", w.ID, w.Name) {
			continue
		}
		if _, err := dice.Parse(w.DamageDice); err != nil {
			fail("weapon %q: %w", w.ID, err)
		}
		if w.Price < 0 {
			fail("weapon %q: price must be >= 0", w.ID)
		}
		c.weapons[Key(w.ID)], c.weapons[Key(w.Name)] = w, w
	}
	for i := range src.Armor {
		a := &src.Armor[i]
		if !index(gear, "armor", a.ID, a.Name) {
			continue
		}
		if a.Shield && a.AC < 1 {
			fail("armor %q: shield ac bonus must be >= 1", a.ID)
		}
		if !a.Shield && a.AC < 10 {
			fail("armor %q: body armor ac must be >= 10", a.ID)
		}
		c.armor[Key(a.ID)], c.armor[Key(a.Name)] = a, a
	}
	for i := range src.Items {
		it := &src.Items[i]
		if !index(gear, "item", it.ID, it.Name) {
			continue
		}
		if !itemDefTypes[it.Type] {
			fail("item %q: type %q is not one of potion, scroll, misc, food, material, key", it.ID, it.Type)
		}
		if it.HealDice != "" {
			if _, err := dice.Parse(it.HealDice); err != nil {
				fail("item %q: %w", it.ID, err)
			}
		}
		c.items[Key(it.ID)], c.items[Key(it.Name)] = it, it
	}

	spellNames := make(map[string]bool)
	for i := range src.Spells {
		s := &src.Spells[i]
		if !index(spellNames, "spell", s.ID, s.Name) {
			continue
		}
		if s.Level < 0 || s.Level > 9 {
			fail("spell %q: level must be 0-9, got %d", s.ID, s.Level)
		}
		if s.Mechanics != nil {
			if err := validateMechanics(s.Mechanics); err != nil {
				fail("spell %q: %w", s.ID, err)
			}
		}
		c.spells[Key(s.ID)], c.spells[Key(s.Name)] = s, s
	}

	lootIDs := make(map[string]bool)
	for i := range src.Loot {
		lt := &src.Loot[i]
		if !index(lootIDs, "loot table", lt.ID, lt.ID) {
			continue
		}
		for denom, expr := range lt.Coins {
			if _, err := dice.Parse(expr); err != nil {
				fail("loot table %q: coin %q: %w", lt.ID, denom, err)
			}
		}
		for j, e := range lt.Entries {
			if e.Weight < 0 {
				fail("loot table %q: entry %d: weight must be >= 0", lt.ID, j)
			}
			if e.Item != "" && !gear[Key(e.Item)] {
				fail("loot table %q: entry %d: unknown item %q", lt.ID, j, e.Item)
			}
			if e.Quantity != "" {
				if _, err := dice.Parse(e.Quantity); err != nil {
					fail("loot table %q: entry %d: %w", lt.ID, j, err)
				}
			}
		}
		if len(lt.Entries) > 0 && lt.TotalWeight() == 0 {
			fail("loot table %q: entries must have a positive total weight", lt.ID)
		}
		c.loot[Key(lt.ID)] = lt
	}

	monsterNames := make(map[string]bool)
	for i := range src.Monsters {
		m := &src.Monsters[i]
		if !index(monsterNames, "monster", m.ID, m.Name) {
			continue
		}
		if m.HP < 1 {
			fail("monster %q: hp must be >= 1", m.ID)
		}
		if m.AC < 1 {
			fail("monster %q: ac must be >= 1", m.ID)
		}
		if _, err := dice.Parse(m.DamageDice); err != nil {
			fail("monster %q: %w", m.ID, err)
		}
		if m.XP < 0 {
			fail("monster %q: xp must be >= 0", m.ID)
		}
		if m.Loot != "" && c.loot[Key(m.Loot)] == nil {
			fail("monster %q: unknown loot table %q", m.ID, m.Loot)
		}
		c.monsters[Key(m.ID)], c.monsters[Key(m.Name)] = m, m
	}

	for i := range src.Scenes {
		s := &src.Scenes[i]
		if s.ID == "" || s.Location == "" {
			fail("scene %q: id and location must not be empty", s.ID)
			continue
		}
		if c.scenes[Key(s.ID)] != nil {
			fail("scene %q: duplicate id", s.ID)
			continue
		}
		c.scenes[Key(s.ID)] = s
	}
	for _, s := range c.scenes {
		if len(s.Descriptions) == 0 {
			fail("scene %q: at least one description is required", s.ID)
		}
		for _, id := range s.OnEnter.Spawns {
			if c.monsters[Key(id)] == nil {
				fail("scene %q: spawn %q: %w", s.ID, id, ErrUnknownMonster)
			}
		}
		for j, x := range s.Exits {
			if len(x.Verbs) == 0 {
				fail("scene %q: exit %d: at least one verb is required", s.ID, j)
			}
			if c.scenes[Key(x.Target)] == nil {
				fail("scene %q: exit %d: unknown target scene %q", s.ID, j, x.Target)
			}
			if x.Consumes != "" && !gear[Key(x.Consumes)] {
				fail("scene %q: exit %d: unknown consumed item %q", s.ID, j, x.Consumes)
			}
		}
		if s.OnComplete != nil && s.OnComplete.Loot != "" && c.loot[Key(s.OnComplete.Loot)] == nil {
			fail("scene %q: unknown completion loot table %q", s.ID, s.OnComplete.Loot)
		}
	}

	for i := range src.Traders {
		t := &src.Traders[i]
		if t.ID == "" || t.Location == "" {
			fail("trader %q: id and location must not be empty", t.ID)
			continue
		}
		if c.traders[Key(t.Location)] != nil {
			fail("trader %q: location %q already has a trader", t.ID, t.Location)
			continue
		}
		if t.BuybackRate <= 0 || t.BuybackRate > 1 {
			fail("trader %q: buyback_rate must be in (0, 1], got %v", t.ID, t.BuybackRate)
		}
		for _, st := range t.Stock {
			if !gear[Key(st.Item)] {
				fail("trader %q: unknown stock item %q", t.ID, st.Item)
			}
			if st.Price < 1 {
				fail("trader %q: stock %q: price must be >= 1", t.ID, st.Item)
			}
		}
		c.traders[Key(t.Location)] = t
	}

	for i := range src.Classes {
		cl := &src.Classes[i]
		if cl.ID == "" || cl.Name == "" {
			fail("class %q: id and name must not be empty", cl.ID)
			continue
		}
		if cl.HP < 1 {
			fail("class %q: hp must be >= 1", cl.ID)
		}
		for _, w := range cl.AllowedWeapons {
			if c.weapons[Key(w)] == nil {
				fail("class %q: unknown allowed weapon %q", cl.ID, w)
			}
		}
		for _, st := range cl.Inventory {
			if !gear[Key(st.Item)] {
				fail("class %q: unknown starting item %q", cl.ID, st.Item)
			}
			if st.Quantity < 1 {
				fail("class %q: starting item %q: quantity must be >= 1", cl.ID, st.Item)
			}
		}
		for _, sp := range append(append([]string{}, cl.KnownSpells...), cl.PreparedSpells...) {
			if c.spells[Key(sp)] == nil {
				fail("class %q: unknown spell %q", cl.ID, sp)
			}
		}
		if c.scenes[Key(cl.StartScene)] == nil {
			fail("class %q: unknown start scene %q", cl.ID, cl.StartScene)
		}
		c.classes[Key(cl.ID)] = cl
	}

	c.levels = append([]LevelDef(nil), src.Levels...)
	sort.Slice(c.levels, func(i, j int) bool { return c.levels[i].Level < c.levels[j].Level })
	for i, l := range c.levels {
		if l.Level != i+1 {
			fail("levels: expected level %d, got %d", i+1, l.Level)
		}
		if i > 0 && l.XPRequired <= c.levels[i-1].XPRequired {
			fail("levels: xp_required must increase (level %d)", l.Level)
		}
		if l.HPGain < 0 {
			fail("levels: level %d: hp_gain must be >= 0", l.Level)
		}
	}

	for _, st := range src.Stunts {
		if err := validateStunt(st); err != nil {
			fail("stunt %q: %w", st.ID, err)
		}
	}
	c.stunts = append([]StuntTemplate(nil), src.Stunts...)

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return c, nil
}

func validateMechanics(m *SpellMechanics) error {
	switch m.Kind {
	case MechanicsHeal, MechanicsAttack, MechanicsSave, MechanicsDamage:
	default:
		return fmt.Errorf("mechanics kind %q is not one of heal, attack, save, damage", m.Kind)
	}
	if m.Scaling != ScaleCharacterLevel && m.Scaling != ScaleSlotLevel {
		return fmt.Errorf("mechanics scaling %q is not one of character_level, slot_level", m.Scaling)
	}
	if len(m.Dice) == 0 {
		return errors.New("mechanics dice must not be empty")
	}
	for lvl, expr := range m.Dice {
		if _, err := dice.Parse(expr); err != nil {
			return fmt.Errorf("mechanics dice at %d: %w", lvl, err)
		}
	}
	return nil
}

var (
	validCategories = map[string]bool{
		StuntPhysical: true, StuntMental: true, StuntSocial: true,
		StuntExploration: true, StuntCombatTrick: true,
	}
	validSuccess = map[string]bool{
		EffectNone: true, EffectKnockProne: true, EffectDamageEdge: true, EffectStoryFlag: true,
	}
	validFailure = map[string]bool{
		EffectNone: true, EffectSelfDamage: true, EffectLostPosition: true, EffectAlertedEnemies: true,
	}
)

func validateStunt(st StuntTemplate) error {
	if st.ID == "" {
		return errors.New("id must not be empty")
	}
	if !validCategories[st.Category] {
		return fmt.Errorf("unknown category %q", st.Category)
	}
	if len(st.Keywords) == 0 {
		return errors.New("at least one keyword is required")
	}
	if _, ok := DifficultyDC[st.Difficulty]; !ok {
		return fmt.Errorf("unknown difficulty %q", st.Difficulty)
	}
	if !validSuccess[st.Success.Effect] {
		return fmt.Errorf("unknown success effect %q", st.Success.Effect)
	}
	if !validFailure[st.Failure.Effect] {
		return fmt.Errorf("unknown failure effect %q", st.Failure.Effect)
	}
	return nil
}

// Weapon returns the weapon with the given id or name.
func (c *Catalog) Weapon(key string) (*WeaponDef, bool) {
	w, ok := c.weapons[Key(key)]
	return w, ok
}

// Armor returns the armor or shield with the given id or name.
func (c *Catalog) Armor(key string) (*ArmorDef, bool) {
	a, ok := c.armor[Key(key)]
	return a, ok
}

// Item returns the non-equipment item with the given id or name.
func (c *Catalog) Item(key string) (*ItemDef, bool) {
	it, ok := c.items[Key(key)]
	return it, ok
}

// Describe resolves any inventory item by id or name.
//
// Postcondition: ok is false iff no weapon, armor, or item matches key.
func (c *Catalog) Describe(key string) (ItemInfo, bool) {
	if w, ok := c.Weapon(key); ok {
		return ItemInfo{ID: w.ID, Name: w.Name, Type: TypeWeapon, Price: w.Price}, true
	}
	if a, ok := c.Armor(key); ok {
		return ItemInfo{ID: a.ID, Name: a.Name, Type: TypeArmor, Price: a.Price, Shield: a.Shield}, true
	}
	if it, ok := c.Item(key); ok {
		return ItemInfo{ID: it.ID, Name: it.Name, Type: it.Type, Price: it.Price, HealDice: it.HealDice}, true
	}
	return ItemInfo{}, false
}

// Spell returns the spell with the given id or name.
func (c *Catalog) Spell(key string) (*SpellDef, bool) {
	s, ok := c.spells[Key(key)]
	return s, ok
}

// Monster returns the stat block for a monster id or name.
//
// Postcondition: Returns an error wrapping ErrUnknownMonster when key matches nothing.
func (c *Catalog) Monster(key string) (*MonsterDef, error) {
	m, ok := c.monsters[Key(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMonster, key)
	}
	return m, nil
}

// LootTable returns the loot table with the given id.
func (c *Catalog) LootTable(id string) (*LootTable, bool) {
	lt, ok := c.loot[Key(id)]
	return lt, ok
}

// Scene returns the scene with the given id.
func (c *Catalog) Scene(id string) (*SceneDef, bool) {
	s, ok := c.scenes[Key(id)]
	return s, ok
}

// Scenes returns every scene sorted by id.
func (c *Catalog) Scenes() []*SceneDef {
	out := make([]*SceneDef, 0, len(c.scenes))
	for _, s := range c.scenes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TraderAt returns the trader stationed at location, if any.
func (c *Catalog) TraderAt(location string) (*TraderDef, bool) {
	t, ok := c.traders[Key(location)]
	return t, ok
}

// Class returns the class with the given id.
func (c *Catalog) Class(id string) (*ClassDef, bool) {
	cl, ok := c.classes[Key(id)]
	return cl, ok
}

// Level returns the progression row for level n.
func (c *Catalog) Level(n int) (LevelDef, bool) {
	if n < 1 || n > len(c.levels) {
		return LevelDef{}, false
	}
	return c.levels[n-1], true
}

// MaxLevel returns the level cap, or 0 if no level table is loaded.
func (c *Catalog) MaxLevel() int { return len(c.levels) }

// Stunts returns the stunt templates in declaration order.
func (c *Catalog) Stunts() []StuntTemplate {
	return append([]StuntTemplate(nil), c.stunts...)
}

// WeaponNames returns the display names of every weapon.
func (c *Catalog) WeaponNames() []string {
	seen := make(map[*WeaponDef]bool)
	var out []string
	for _, w := range c.weapons {
		if !seen[w] {
			seen[w] = true
			out = append(out, w.Name)
		}
	}
	sort.Strings(out)
	return out
}

// SpellNames returns the display names of every spell.
func (c *Catalog) SpellNames() []string {
	seen := make(map[*SpellDef]bool)
	var out []string
	for _, s := range c.spells {
		if !seen[s] {
			seen[s] = true
			out = append(out, s.Name)
		}
	}
	sort.Strings(out)
	return out
}
