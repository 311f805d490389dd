package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is wrapped by every error Parse returns.
var ErrParse = errors.New("dice: parse error")

// Term is one signed component of an Expression: either NdM dice or a flat value.
type Term struct {
	Sign  int // +1 or -1
	Count int // number of dice; 0 for a flat term
	Sides int // faces per die; 0 for a flat term
	Flat  int // flat value; only meaningful when Count == 0
}

// IsFlat reports whether the term is a flat modifier rather than dice.
func (t Term) IsFlat() bool { return t.Count == 0 }

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant: len(Terms) >= 1; every dice term has Count >= 1 and Sides >= 1.
type Expression struct {
	Raw   string // original input string
	Terms []Term
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int {
	total := 0
	for _, t := range e.Terms {
		if t.IsFlat() {
			total += t.Sign * t.Flat
			continue
		}
		if t.Sign > 0 {
			total += t.Count
		} else {
			total -= t.Count * t.Sides
		}
	}
	return total
}

// Max returns the largest total the expression can produce.
func (e Expression) Max() int {
	total := 0
	for _, t := range e.Terms {
		if t.IsFlat() {
			total += t.Sign * t.Flat
			continue
		}
		if t.Sign > 0 {
			total += t.Count * t.Sides
		} else {
			total -= t.Count
		}
	}
	return total
}

// Parse parses a dice expression of the grammar [+-]?(N?dM|K) repeated, e.g.
// "d20", "3d6", "2d6+1d4+2", "1d8-1". Whitespace is ignored.
//
// Precondition: none; any string is accepted as input.
// Postcondition: Returns a valid Expression, or an error wrapping ErrParse when a
// term is not a dice or numeric token or when N <= 0 or M <= 0.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrParse)
	}

	var terms []Term
	i := 0
	for i < len(s) {
		sign := 1
		switch s[i] {
		case '+':
			i++
		case '-':
			sign = -1
			i++
		default:
			if len(terms) > 0 {
				return Expression{}, fmt.Errorf("%w: expected sign at offset %d in %q", ErrParse, i, expr)
			}
		}
		j := i
		for j < len(s) && s[j] != '+' && s[j] != '-' {
			j++
		}
		term, err := parseTerm(s[i:j], expr)
		if err != nil {
			return Expression{}, err
		}
		term.Sign = sign
		terms = append(terms, term)
		i = j
	}

	return Expression{Raw: expr, Terms: terms}, nil
}

// parseTerm parses a single unsigned token: "NdM", "dM", or "K".
func parseTerm(tok, raw string) (Term, error) {
	if tok == "" {
		return Term{}, fmt.Errorf("%w: empty term in %q", ErrParse, raw)
	}
	dIdx := strings.IndexByte(tok, 'd')
	if dIdx < 0 {
		flat, err := strconv.Atoi(tok)
		if err != nil || flat < 0 {
			return Term{}, fmt.Errorf("%w: invalid token %q in %q", ErrParse, tok, raw)
		}
		return Term{Flat: flat}, nil
	}

	count := 1
	if countStr := tok[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Term{}, fmt.Errorf("%w: invalid die count %q in %q", ErrParse, countStr, raw)
		}
		count = n
	}
	if count <= 0 {
		return Term{}, fmt.Errorf("%w: die count must be >= 1 in %q", ErrParse, raw)
	}

	sides, err := strconv.Atoi(tok[dIdx+1:])
	if err != nil {
		return Term{}, fmt.Errorf("%w: invalid die sides %q in %q", ErrParse, tok[dIdx+1:], raw)
	}
	if sides <= 0 {
		return Term{}, fmt.Errorf("%w: die sides must be >= 1 in %q", ErrParse, raw)
	}
	return Term{Count: count, Sides: sides}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
