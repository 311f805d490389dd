package intent

import (
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
)

var (
	buyVerbs  = map[string]bool{"buy": true, "purchase": true}
	sellVerbs = map[string]bool{"sell": true, "pawn": true}
	shopWords = []string{"shop", "browse", "wares", "store", "merchant", "for sale", "what do you sell", "trade"}
)

// Parser classifies player input against the reference vocabulary.
type Parser struct {
	rules   []Rule
	weapons []string
	stunts  []catalog.StuntTemplate
}

// NewParser builds a Parser using the default rule table and the weapon names
// and stunt templates in cat.
//
// Precondition: cat must not be nil.
func NewParser(cat *catalog.Catalog) *Parser {
	return &Parser{
		rules:   DefaultRules,
		weapons: cat.WeaponNames(),
		stunts:  cat.Stunts(),
	}
}

// RuleNames returns the classifier rule names in priority order.
func (p *Parser) RuleNames() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name
	}
	return names
}

// Parse classifies raw. knownSpells are the player's known spell names.
//
// Postcondition: never fails; text no rule recognizes yields KindOther. Trade
// and Stunt are set whenever the text carries a trade request or a stunt
// keyword, whatever Kind is.
func (p *Parser) Parse(raw string, knownSpells []string) Action {
	in := newInput(raw, knownSpells)
	in.trade = classifyTrade(in)
	in.stunt = p.classifyStunt(in)

	for _, r := range p.rules {
		a, ok := r.Match(p, in)
		if !ok {
			continue
		}
		a.Rule = r.Name
		a.Raw = in.raw
		a.Trade, a.Stunt = in.trade, in.stunt
		return a
	}
	return Action{Kind: KindOther, Rule: "other", Raw: in.raw, Trade: in.trade, Stunt: in.stunt}
}

func classifyTrade(in input) *Trade {
	switch {
	case buyVerbs[in.verb] && in.rest != "":
		return &Trade{Kind: TradeBuy, Item: stripArticles(in.rest)}
	case sellVerbs[in.verb] && in.rest != "":
		return &Trade{Kind: TradeSell, Item: stripArticles(in.rest)}
	case anyWord(in.lower, shopWords):
		return &Trade{Kind: TradeOpenShop}
	}
	return nil
}

// classifyStunt returns the first template, in declaration order, with a
// keyword present in the text.
func (p *Parser) classifyStunt(in input) *catalog.StuntTemplate {
	for i := range p.stunts {
		for _, kw := range p.stunts[i].Keywords {
			if containsWord(in.lower, strings.ToLower(kw)) {
				st := p.stunts[i]
				return &st
			}
		}
	}
	return nil
}
