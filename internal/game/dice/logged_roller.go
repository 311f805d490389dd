package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// Every roll is logged at debug level and recorded in the roller's history,
// so one Roller is created per resolved turn.
//
// A Roller is not safe for concurrent use.
type Roller struct {
	src     Source
	logger  *zap.Logger
	history []RollResult
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr, logs the result at debug level, and records it.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	r.history = append(r.history, result)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or an error wrapping ErrParse.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// D20 rolls a single twenty-sided die and returns its face.
func (r *Roller) D20() int {
	return r.Roll(d20).Total()
}

// History returns a copy of every roll made through r, in order.
func (r *Roller) History() []RollResult {
	out := make([]RollResult, len(r.history))
	copy(out, r.history)
	return out
}

// Totals returns the total of every recorded roll, in order.
func (r *Roller) Totals() []int {
	out := make([]int, len(r.history))
	for i, h := range r.history {
		out[i] = h.Total()
	}
	return out
}

var d20 = MustParse("1d20")
