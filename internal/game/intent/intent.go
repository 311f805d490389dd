// Package intent classifies raw player text into a closed set of tagged actions.
//
// Classification is an ordered table of rules evaluated top to bottom; the
// first rule that matches decides the action's Kind. Trade and stunt
// classifications are computed independently of that decision and are always
// attached to the result.
package intent

import (
	"strings"

	"github.com/cory-johannsen/delve/internal/game/catalog"
)

// Kind tags the resolved action variant.
type Kind string

const (
	KindCheckSheet Kind = "check_sheet"
	KindLook       Kind = "look"
	KindRun        Kind = "run"
	KindDefend     Kind = "defend"
	KindUse        Kind = "use"
	KindSearch     Kind = "search"
	KindMove       Kind = "move"
	KindCast       Kind = "cast"
	KindAttack     Kind = "attack"
	KindStunt      Kind = "stunt"
	KindTrade      Kind = "trade"
	KindOther      Kind = "other"
)

// TradeKind tags a trade request.
type TradeKind string

const (
	TradeOpenShop TradeKind = "open_shop"
	TradeBuy      TradeKind = "buy"
	TradeSell     TradeKind = "sell"
)

// Trade is the optional trade classification of an action.
type Trade struct {
	Kind TradeKind
	// Item is the free-text item name for buy and sell.
	Item string
}

// Action is the parsed form of one line of player input.
type Action struct {
	Kind Kind
	// Rule names the classifier rule that decided Kind.
	Rule string
	// Raw is the input with surrounding whitespace removed.
	Raw string

	Weapon    string // attack: weapon named in the text, if any
	Target    string // attack, cast, search: free-text target
	Ability   string // cast: canonical spell name when known, else the text as typed
	Direction string // move
	Section   string // check_sheet: inventory, spells, or "" for the whole sheet
	Item      string // use

	Trade *Trade
	Stunt *catalog.StuntTemplate
}

// IsCombat reports whether the action engages nearby threats.
func (a Action) IsCombat() bool {
	return a.Kind == KindAttack || a.Kind == KindDefend
}

// input is the normalized view every rule matches against.
type input struct {
	raw         string
	lower       string
	verb        string
	rest        string
	knownSpells []string
	trade       *Trade
	stunt       *catalog.StuntTemplate
}

func newInput(raw string, knownSpells []string) input {
	raw = strings.TrimSpace(raw)
	lower := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	verb, rest := lower, ""
	if i := strings.IndexByte(lower, ' '); i >= 0 {
		verb, rest = lower[:i], strings.TrimSpace(lower[i+1:])
	}
	return input{raw: raw, lower: lower, verb: verb, rest: rest, knownSpells: knownSpells}
}

// stripArticles removes leading filler words such as "the" or "at".
func stripArticles(s string) string {
	for {
		trimmed := false
		for _, a := range []string{"the ", "a ", "an ", "at ", "on ", "my ", "to ", "some "} {
			if strings.HasPrefix(s, a) {
				s = strings.TrimSpace(s[len(a):])
				trimmed = true
			}
		}
		if !trimmed {
			return s
		}
	}
}

// containsWord reports whether phrase occurs in text on word boundaries.
func containsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		before := i == 0 || !isWordByte(text[i-1])
		after := end == len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '\'' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// longestMention returns the longest candidate that occurs as a whole phrase in text.
func longestMention(text string, candidates []string) (string, bool) {
	best := ""
	for _, c := range candidates {
		if len(c) > len(best) && containsWord(text, strings.ToLower(c)) {
			best = c
		}
	}
	return best, best != ""
}

// Mentions reports whether phrase occurs in text as whole words, ignoring case.
func Mentions(text, phrase string) bool {
	return containsWord(strings.ToLower(text), strings.ToLower(strings.TrimSpace(phrase)))
}
