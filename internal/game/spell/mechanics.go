package spell

import (
	"fmt"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// mechanicsEffect resolves a spell from its catalog mechanics descriptor.
type mechanicsEffect struct {
	m *catalog.SpellMechanics
}

func (e mechanicsEffect) needsTarget() bool {
	return e.m.Kind != catalog.MechanicsHeal
}

// scaledDice picks the dice entry for the caster's level or the slot level.
func (e mechanicsEffect) scaledDice(c *turn.Context, def *catalog.SpellDef) (string, error) {
	level := 1
	if e.m.Scaling == catalog.ScaleCharacterLevel {
		level = c.State.Level
	} else if def.Level > level {
		level = def.Level
	}
	expr, ok := e.m.DiceAt(level)
	if !ok {
		return "", fmt.Errorf("spell %q: no dice for level %d", def.Name, level)
	}
	return expr, nil
}

func (e mechanicsEffect) apply(c *turn.Context, def *catalog.SpellDef, idx int, out *turn.Outcome) error {
	s := c.State
	expr, err := e.scaledDice(c, def)
	if err != nil {
		return err
	}
	ability := keyAbility(c)

	switch e.m.Kind {
	case catalog.MechanicsHeal:
		n, err := rollFor(c, def.Name, expr)
		if err != nil {
			return err
		}
		restored := combat.HealPlayer(s, n)
		out.Add("You cast %s and recover %d HP (%d/%d).", def.Name, restored, s.HP, s.MaxHP)
		return nil

	case catalog.MechanicsAttack:
		t := s.NearbyEntities[idx]
		roll := c.Dice.D20()
		total := roll + AttackBonus(s, ability)
		if !combat.Hits(total, t.AC) {
			out.Miss = true
			out.Add("Your %s misses the %s (rolled %d vs AC %d).", def.Name, t.Name, total, t.AC)
			return nil
		}
		n, err := rollFor(c, def.Name, expr)
		if err != nil {
			return err
		}
		out.Add("Your %s strikes the %s for %d damage (rolled %d vs AC %d).", def.Name, t.Name, n, total, t.AC)
		return damageTarget(c, idx, n, out)

	case catalog.MechanicsSave:
		t := s.NearbyEntities[idx]
		dc := SaveDC(s, ability)
		save := c.Dice.D20()
		n, err := rollFor(c, def.Name, expr)
		if err != nil {
			return err
		}
		if save >= dc {
			if !e.m.HalfOnSave {
				out.Miss = true
				out.Add("The %s resists your %s (saved %d vs DC %d).", t.Name, def.Name, save, dc)
				return nil
			}
			n /= 2
			out.Add("The %s partly resists your %s and takes %d damage (saved %d vs DC %d).", t.Name, def.Name, n, save, dc)
		} else {
			out.Add("Your %s engulfs the %s for %d damage (saved %d vs DC %d).", def.Name, t.Name, n, save, dc)
		}
		if n == 0 {
			out.Miss = true
			return nil
		}
		return damageTarget(c, idx, n, out)

	case catalog.MechanicsDamage:
		t := s.NearbyEntities[idx]
		n, err := rollFor(c, def.Name, expr)
		if err != nil {
			return err
		}
		out.Add("Your %s hits the %s for %d damage.", def.Name, t.Name, n)
		return damageTarget(c, idx, n, out)
	}
	return fmt.Errorf("spell %q: unsupported mechanics kind %q", def.Name, e.m.Kind)
}
