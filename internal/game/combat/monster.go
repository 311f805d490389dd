package combat

import (
	"fmt"

	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

// MonsterTurn lets the first living, unpinned entity strike back: d20 plus its
// attack bonus against the player's effective AC.
//
// Precondition: MonsterShouldAct returned true for this turn.
// Postcondition: 0 <= player HP <= MaxHP.
func MonsterTurn(c *turn.Context, out *turn.Outcome) error {
	s := c.State
	idx, ok := nextActor(s)
	if !ok {
		return nil
	}
	e := s.NearbyEntities[idx]
	ac := condition.EffectiveAC(s)
	roll := c.Dice.D20()
	total := roll + e.AttackBonus
	if out.EnemyName == "" {
		out.EnemyName = e.Name
	}
	if !Hits(total, ac) {
		out.Add("The %s attacks and misses (rolled %d vs your AC %d).", e.Name, total, ac)
		return nil
	}
	dmg, err := c.Roll(e.DamageDice)
	if err != nil {
		return fmt.Errorf("entity %q: %w", e.Name, err)
	}
	if dmg < 1 {
		dmg = 1
	}
	DamagePlayer(s, dmg)
	out.TookDamage += dmg
	out.Add("The %s hits you for %d damage (rolled %d vs your AC %d).", e.Name, dmg, total, ac)
	if s.HP == 0 {
		out.Add("You collapse, mortally wounded.")
	}
	return nil
}
