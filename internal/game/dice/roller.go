package dice

// Roll evaluates an Expression using the given Source and returns a RollResult.
// Terms are evaluated left to right; each die draws uniformly from 1..Sides.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: result.Total() is in [expr.Min(), expr.Max()].
func Roll(expr Expression, src Source) RollResult {
	result := RollResult{Expression: expr.Raw}
	for _, t := range expr.Terms {
		if t.IsFlat() {
			result.Modifier += t.Sign * t.Flat
			continue
		}
		for i := 0; i < t.Count; i++ {
			result.Dice = append(result.Dice, t.Sign*(src.Intn(t.Sides)+1))
		}
	}
	return result
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a RollResult or an error wrapping ErrParse.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
