// Package stunt resolves free-form skill actions against a stunt template.
package stunt

import (
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/condition"
	"github.com/cory-johannsen/delve/internal/game/state"
	"github.com/cory-johannsen/delve/internal/game/turn"
)

const (
	// TrainedBonus is added to the roll when the player has the primary skill.
	TrainedBonus = 2
	// DefaultEdge is the damage edge granted when a template names no value.
	DefaultEdge = 2
	// DefaultSelfDamage is the damage taken when a template names no value.
	DefaultSelfDamage = 2
	// ProneName is the pin effect applied by knock_prone.
	ProneName = "Prone"
	// EdgeName is the damage bonus applied by damage_edge.
	EdgeName = "Edge"

	// FlagLostPosition and FlagAlertedEnemies record failed stunts.
	FlagLostPosition   = "lost_position"
	FlagAlertedEnemies = "alerted_enemies"
)

// FlagFor returns the one-time story flag a template's story_flag effect sets.
func FlagFor(tmpl catalog.StuntTemplate) string {
	return "stunt_" + tmpl.ID
}

// Result is the resolved check.
type Result struct {
	Roll    int
	Bonus   int
	DC      int
	Success bool
}

// Check rolls d20 plus the skill bonus against the template's difficulty.
func Check(c *turn.Context, tmpl catalog.StuntTemplate) Result {
	r := Result{DC: catalog.DifficultyDC[tmpl.Difficulty]}
	if c.State.HasSkill(tmpl.PrimarySkill) {
		r.Bonus = TrainedBonus
	}
	r.Roll = c.Dice.D20()
	r.Success = r.Roll+r.Bonus >= r.DC
	return r
}

// Resolve performs the stunt and applies exactly one consequence for the
// branch taken. target names the entity affected by knock_prone.
//
// Postcondition: never refuses; out always carries at least one fact and a
// narration override.
func Resolve(c *turn.Context, tmpl catalog.StuntTemplate, target string, out *turn.Outcome) {
	s := c.State
	r := Check(c, tmpl)
	verb := "fail"
	if r.Success {
		verb = "succeed"
	}
	out.Add("You attempt a %s stunt and %s (rolled %d%+d vs DC %d).", tmpl.Category, verb, r.Roll, r.Bonus, r.DC)

	affected := false
	if r.Success {
		affected = applySuccess(c, tmpl, target, out)
	} else {
		applyFailure(s, tmpl, out)
	}

	investigative := tmpl.Category == catalog.StuntMental || tmpl.Category == catalog.StuntExploration
	out.Investigated = investigative
	switch {
	case investigative:
		out.Override = turn.ModeInvestigate
	case r.Success && affected:
		out.Override = turn.ModeCombatHit
	case !r.Success && s.LivingThreats() > 0:
		out.Override = turn.ModeCombatMiss
	default:
		out.Override = turn.ModeGeneral
	}
}

func applySuccess(c *turn.Context, tmpl catalog.StuntTemplate, target string, out *turn.Outcome) bool {
	s := c.State
	switch tmpl.Success.Effect {
	case catalog.EffectKnockProne:
		idx, ok := combat.FindTarget(s, target)
		if !ok {
			out.Add("There is no one here to bring down.")
			return false
		}
		e := &s.NearbyEntities[idx]
		e.Effects = condition.Apply(e.Effects, state.Effect{
			Name:          ProneName,
			Type:          condition.TypePin,
			ExpiresAtTurn: condition.Until(s.TurnCounter, 1),
		})
		out.EnemyName = e.Name
		out.Add("The %s is knocked off balance and cannot act this turn.", e.Name)
		return true
	case catalog.EffectDamageEdge:
		v := tmpl.Success.Value
		if v <= 0 {
			v = DefaultEdge
		}
		s.ActiveEffects = condition.Apply(s.ActiveEffects, state.Effect{
			Name:          EdgeName,
			Type:          condition.TypeDamageBonus,
			Value:         v,
			ExpiresAtTurn: condition.Until(s.TurnCounter, 2),
		})
		out.Add("You gain an edge: +%d damage on your next attack.", v)
	case catalog.EffectStoryFlag:
		flag := FlagFor(tmpl)
		if s.HasFlag(flag) {
			out.Add("You have already learned all you can this way.")
			return false
		}
		s.SetFlag(flag)
		out.Add("You uncover something worth remembering.")
	default:
		out.Add("It makes no real difference.")
	}
	return false
}

func applyFailure(s *state.GameState, tmpl catalog.StuntTemplate, out *turn.Outcome) {
	switch tmpl.Failure.Effect {
	case catalog.EffectSelfDamage:
		v := tmpl.Failure.Value
		if v <= 0 {
			v = DefaultSelfDamage
		}
		before := s.HP
		combat.DamagePlayer(s, v)
		out.TookDamage += before - s.HP
		out.Add("You take %d damage in the attempt.", before-s.HP)
	case catalog.EffectLostPosition:
		s.SetFlag(FlagLostPosition)
		out.Add("You lose your footing and your position.")
	case catalog.EffectAlertedEnemies:
		s.SetFlag(FlagAlertedEnemies)
		out.Add("The noise alerts everything nearby.")
	default:
		out.Add("Nothing comes of it.")
	}
}
