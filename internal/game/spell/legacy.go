package spell

import (
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

type legacyKind int

const (
	legacyHeal legacyKind = iota
	legacyDamage
	legacyACBuff
	legacyPin
)

// legacyEffect is a fixed behavior for a named spell without a mechanics descriptor.
type legacyEffect struct {
	kind     legacyKind
	dice     string
	value    int
	duration int // turns, counting the casting turn
}

// legacy maps normalized spell names to their fixed behavior.
var legacy = map[string]legacyEffect{
	"cure wounds":   {kind: legacyHeal, dice: "1d8+3"},
	"healing word":  {kind: legacyHeal, dice: "1d4+3"},
	"magic missile": {kind: legacyDamage, dice: "3d4+3"},
	"shield":        {kind: legacyACBuff, value: 5, duration: 2},
	"mage armor":    {kind: legacyACBuff, value: 3, duration: 10},
	"hold person":   {kind: legacyPin, duration: 2},
	"sleep":         {kind: legacyPin, duration: 2},
	"entangle":      {kind: legacyPin, duration: 1},
}

func (e legacyEffect) needsTarget() bool {
	return e.kind == legacyDamage || e.kind == legacyPin
}

func (e legacyEffect) apply(c *turn.Context, def *catalog.SpellDef, idx int, out *turn.Outcome) error {
	s := c.State
	switch e.kind {
	case legacyHeal:
		n, err := rollFor(c, def.Name, e.dice)
		if err != nil {
			return err
		}
		restored := combat.HealPlayer(s, n)
		out.Add("You cast %s and recover %d HP (%d/%d).", def.Name, restored, s.HP, s.MaxHP)
	case legacyDamage:
		n, err := rollFor(c, def.Name, e.dice)
		if err != nil {
			return err
		}
		out.Add("Your %s hits the %s for %d damage.", def.Name, s.NearbyEntities[idx].Name, n)
		return damageTarget(c, idx, n, out)
	case legacyACBuff:
		s.ActiveEffects = condition.Apply(s.ActiveEffects, state.Effect{
			Name:          def.Name,
			Type:          condition.TypeACBonus,
			Value:         e.value,
			ExpiresAtTurn: condition.Until(s.TurnCounter, e.duration),
		})
		out.Add("You cast %s and gain +%d AC.", def.Name, e.value)
	case legacyPin:
		t := &s.NearbyEntities[idx]
		t.Effects = condition.Apply(t.Effects, state.Effect{
			Name:          def.Name,
			Type:          condition.TypePin,
			ExpiresAtTurn: condition.Until(s.TurnCounter, e.duration),
		})
		out.Add("Your %s holds the %s fast.", def.Name, t.Name)
	}
	return nil
}
