package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/delve/internal/game/state"
)

// Coin values in copper pieces.
const (
	CopperPerSilver   = 10
	CopperPerGold     = state.CopperPerGold
	CopperPerPlatinum = 1000
)

var copperValue = map[string]int{
	"copper":   1,
	"silver":   CopperPerSilver,
	"gold":     CopperPerGold,
	"platinum": CopperPerPlatinum,
}

// KnownDenomination reports whether denom is a recognized coin name.
func KnownDenomination(denom string) bool {
	_, ok := copperValue[strings.ToLower(denom)]
	return ok
}

// ToCopper returns the total value of a coin purse in copper pieces. Unknown
// denominations are worth nothing.
//
// Precondition: every count is >= 0.
func ToCopper(coins map[string]int) int {
	copper := 0
	for denom, n := range coins {
		copper += copperValue[strings.ToLower(denom)] * n
	}
	return copper
}

// Deposit adds copper to the player's purse, changing every full
// CopperPerGold into one gold piece.
//
// Precondition: copper >= 0.
// Postcondition: 0 <= s.Copper < CopperPerGold. Returns the gold pieces added.
func Deposit(s *state.GameState, copper int) int {
	total := s.Copper + copper
	gold := total / CopperPerGold
	s.Gold += gold
	s.Copper = total % CopperPerGold
	return gold
}

// FormatCoins renders a coin purse such as "3 gold, 12 silver", ordered from the
// most to the least valuable denomination and omitting zero counts.
func FormatCoins(coins map[string]int) string {
	denoms := make([]string, 0, len(coins))
	for d, n := range coins {
		if n > 0 {
			denoms = append(denoms, d)
		}
	}
	sort.Slice(denoms, func(i, j int) bool {
		vi, vj := copperValue[strings.ToLower(denoms[i])], copperValue[strings.ToLower(denoms[j])]
		if vi != vj {
			return vi > vj
		}
		return denoms[i] < denoms[j]
	})
	parts := make([]string, len(denoms))
	for i, d := range denoms {
		parts[i] = fmt.Sprintf("%d %s", coins[d], d)
	}
	return strings.Join(parts, ", ")
}
