package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// Weapon is the resolved weapon for one attack.
type Weapon struct {
	Name       string
	DamageDice string
}

// ResolveWeapon picks the weapon for an attack. A named weapon the player
// carries is used; otherwise the equipped weapon; otherwise fists. A weapon
// the player's class may not wield is replaced by fists.
func ResolveWeapon(s *state.GameState, cat *catalog.Catalog, named string) Weapon {
	fists := Weapon{Name: UnarmedName, DamageDice: UnarmedDice}

	var item state.Item
	found := false
	if named != "" {
		if i, ok := inventory.Find(s, named); ok && s.Inventory[i].Type == state.ItemWeapon && s.Inventory[i].Quantity > 0 {
			item, found = s.Inventory[i], true
		}
	}
	if !found {
		item, found = inventory.Equipped(s, inventory.SlotWeapon)
	}
	if !found {
		return fists
	}
	def, ok := cat.Weapon(item.ID)
	if !ok {
		if def, ok = cat.Weapon(item.Name); !ok {
			return fists
		}
	}
	if cl, ok := cat.Class(s.CharacterClass); ok && !allowed(cl.AllowedWeapons, def) {
		return fists
	}
	return Weapon{Name: def.Name, DamageDice: def.DamageDice}
}

func allowed(list []string, w *catalog.WeaponDef) bool {
	for _, a := range list {
		k := catalog.Key(a)
		if k == catalog.Key(w.ID) || k == catalog.Key(w.Name) {
			return true
		}
	}
	return false
}

// Attack resolves a weapon attack: d20 against the target's AC, meet or beat
// to hit. A hit rolls weapon damage plus any damage edge.
//
// Postcondition: refused when nothing is alive. Returns an error only for
// malformed dice or a target with no stat block, both data errors.
func Attack(c *turn.Context, weaponName, target string, out *turn.Outcome) error {
	s := c.State
	idx, ok := FindTarget(s, target)
	if !ok {
		out.Refuse("There is nothing here to attack.")
		return nil
	}
	w := ResolveWeapon(s, c.Catalog, weaponName)
	e := &s.NearbyEntities[idx]
	out.EnemyName = e.Name

	roll := c.Dice.D20()
	if !Hits(roll, e.AC) {
		out.Miss = true
		out.Add("You attack the %s with your %s and miss (rolled %d vs AC %d).", e.Name, strings.ToLower(w.Name), roll, e.AC)
		return nil
	}

	dmg, err := c.Roll(w.DamageDice)
	if err != nil {
		return fmt.Errorf("weapon %q: %w", w.Name, err)
	}
	dmg += condition.DamageBonus(s.ActiveEffects)
	if dmg < 1 {
		dmg = 1
	}
	out.Hit = true
	out.DealtDamage += dmg
	out.Add("You hit the %s with your %s for %d damage (rolled %d vs AC %d).", e.Name, strings.ToLower(w.Name), dmg, roll, e.AC)
	return Slay(c, idx, dmg, out)
}

// Slay applies dmg to the entity at idx and, if it dies, records the kill and
// its XP.
//
// Postcondition: returns an error wrapping catalog.ErrUnknownMonster when a
// slain entity has no stat block.
func Slay(c *turn.Context, idx, dmg int, out *turn.Outcome) error {
	e := &c.State.NearbyEntities[idx]
	if !ApplyDamage(e, dmg) {
		return nil
	}
	out.Kill = true
	out.EnemyName = e.Name
	out.Add("The %s falls.", e.Name)
	m, err := c.Catalog.Monster(e.BaseName())
	if err != nil {
		return err
	}
	out.XPEarned += m.XP
	return nil
}
