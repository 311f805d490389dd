package intent

import (
	"strings"
)

// Rule is one classifier in the priority table. Match returns false when the
// rule does not apply.
type Rule struct {
	Name  string
	Match func(p *Parser, in input) (Action, bool)
}

// DefaultRules is the classification priority, highest first.
var DefaultRules = []Rule{
	{Name: "check_sheet", Match: matchSheet},
	{Name: "look", Match: matchLook},
	{Name: "run", Match: matchRun},
	{Name: "defend", Match: matchDefend},
	{Name: "use", Match: matchUse},
	{Name: "search", Match: matchSearch},
	{Name: "move", Match: matchMove},
	{Name: "cast", Match: matchCast},
	{Name: "attack", Match: matchAttack},
	{Name: "catalog_hint", Match: matchCatalogHint},
	{Name: "stunt", Match: matchStunt},
	{Name: "trade", Match: matchTrade},
}

var (
	sheetPhrases = []string{"character sheet", "sheet", "stats", "status", "inventory", "inv", "my spells", "spellbook", "my gear", "equipment"}
	lookVerbs    = map[string]bool{"look": true, "l": true, "examine": true, "survey": true, "observe": true, "inspect": true}
	runWords     = []string{"run", "flee", "escape", "retreat", "run away"}
	defendWords  = []string{"defend", "block", "parry", "brace", "dodge", "take cover", "raise my shield"}
	useVerbs     = map[string]bool{"use": true, "drink": true, "quaff": true, "apply": true, "eat": true, "consume": true, "read": true}
	searchWords  = []string{"search", "loot", "rummage", "scavenge", "pillage"}
	moveVerbs    = map[string]bool{"go": true, "walk": true, "head": true, "move": true, "travel": true, "enter": true, "leave": true, "descend": true, "ascend": true, "climb": true, "return": true, "exit": true}
	directions   = map[string]bool{"north": true, "south": true, "east": true, "west": true, "up": true, "down": true, "in": true, "out": true, "back": true, "forward": true, "n": true, "s": true, "e": true, "w": true}
	castVerbs    = map[string]bool{"cast": true, "invoke": true, "channel": true}
	attackVerbs  = map[string]bool{"attack": true, "hit": true, "strike": true, "stab": true, "slash": true, "shoot": true, "swing": true, "fight": true, "kill": true, "smite": true}
)

func anyWord(text string, words []string) bool {
	for _, w := range words {
		if containsWord(text, w) {
			return true
		}
	}
	return false
}

func matchSheet(_ *Parser, in input) (Action, bool) {
	if in.lower != "i" && !anyWord(in.lower, sheetPhrases) {
		return Action{}, false
	}
	a := Action{Kind: KindCheckSheet}
	switch {
	case in.lower == "i" || containsWord(in.lower, "inventory") || containsWord(in.lower, "inv") ||
		containsWord(in.lower, "my gear") || containsWord(in.lower, "equipment"):
		a.Section = "inventory"
	case containsWord(in.lower, "my spells") || containsWord(in.lower, "spellbook"):
		a.Section = "spells"
	}
	return a, true
}

func matchLook(_ *Parser, in input) (Action, bool) {
	if lookVerbs[in.verb] || in.lower == "where am i" || in.lower == "look around" {
		return Action{Kind: KindLook, Target: stripArticles(strings.TrimPrefix(in.rest, "around"))}, true
	}
	return Action{}, false
}

func matchRun(_ *Parser, in input) (Action, bool) {
	if anyWord(in.lower, runWords) {
		return Action{Kind: KindRun}, true
	}
	return Action{}, false
}

func matchDefend(_ *Parser, in input) (Action, bool) {
	if anyWord(in.lower, defendWords) {
		return Action{Kind: KindDefend}, true
	}
	return Action{}, false
}

func matchUse(_ *Parser, in input) (Action, bool) {
	if !useVerbs[in.verb] {
		return Action{}, false
	}
	return Action{Kind: KindUse, Item: stripArticles(in.rest)}, true
}

func matchSearch(_ *Parser, in input) (Action, bool) {
	for _, w := range searchWords {
		if in.verb == w {
			return Action{Kind: KindSearch, Target: stripArticles(in.rest)}, true
		}
	}
	if anyWord(in.lower, searchWords) {
		return Action{Kind: KindSearch}, true
	}
	return Action{}, false
}

func matchMove(_ *Parser, in input) (Action, bool) {
	if directions[in.lower] {
		return Action{Kind: KindMove, Direction: in.lower}, true
	}
	if !moveVerbs[in.verb] {
		return Action{}, false
	}
	dir := stripArticles(in.rest)
	if dir == "" {
		dir = in.verb
	}
	return Action{Kind: KindMove, Direction: dir}, true
}

func matchCast(_ *Parser, in input) (Action, bool) {
	if !castVerbs[in.verb] {
		return Action{}, false
	}
	body, target := splitTarget(in.rest, " on ", " at ")
	a := Action{Kind: KindCast, Target: target}
	if name, ok := longestMention(body, in.knownSpells); ok {
		a.Ability = name
	} else {
		a.Ability = stripArticles(body)
	}
	return a, true
}

func matchAttack(p *Parser, in input) (Action, bool) {
	if !attackVerbs[in.verb] {
		return Action{}, false
	}
	body, weapon := splitTarget(in.rest, " with ", " using ")
	a := Action{Kind: KindAttack, Target: stripArticles(body)}
	if w, ok := longestMention(weapon, p.weapons); ok {
		a.Weapon = w
	} else if weapon != "" {
		a.Weapon = weapon
	}
	return a, true
}

// matchCatalogHint turns a bare weapon or known spell mention into an attack or
// cast. A trade request mentioning a weapon ("sell dagger") is left for the trade rule.
func matchCatalogHint(p *Parser, in input) (Action, bool) {
	if in.trade != nil && in.trade.Kind != TradeOpenShop {
		return Action{}, false
	}
	if w, ok := longestMention(in.lower, p.weapons); ok {
		return Action{Kind: KindAttack, Weapon: w}, true
	}
	if s, ok := longestMention(in.lower, in.knownSpells); ok {
		_, target := splitTarget(in.lower, " on ", " at ")
		return Action{Kind: KindCast, Ability: s, Target: target}, true
	}
	return Action{}, false
}

func matchStunt(_ *Parser, in input) (Action, bool) {
	if in.stunt == nil {
		return Action{}, false
	}
	return Action{Kind: KindStunt}, true
}

func matchTrade(_ *Parser, in input) (Action, bool) {
	if in.trade == nil {
		return Action{}, false
	}
	return Action{Kind: KindTrade}, true
}

// splitTarget splits s at the first separator found, returning the text
// before it and the stripped text after it.
func splitTarget(s string, seps ...string) (string, string) {
	padded := " " + s
	for _, sep := range seps {
		if i := strings.Index(padded, sep); i >= 0 {
			return strings.TrimSpace(padded[:i]), stripArticles(strings.TrimSpace(padded[i+len(sep):]))
		}
	}
	return s, ""
}
