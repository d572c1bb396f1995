package tables

import (
	"math"
	"strconv"

	"github.com/zephyrtronium/infix"
)

// NumberPattern is an operand pattern that admits decimal numbers as well as
// names. Signs and exponents with signs are operators, so "1e-3" is three
// tokens.
const NumberPattern = `[A-Za-z0-9_.]+`

var floatops = infix.MustTable(map[string]infix.Operator[float64]{
	"+": {
		Unary:  &infix.UnaryOp[float64]{Priority: 3, Exec: func(x float64) (float64, error) { return x, nil }},
		Binary: &infix.BinaryOp[float64]{Priority: 1, Exec: func(x, y float64) (float64, error) { return x + y, nil }},
	},
	"-": {
		Unary:  &infix.UnaryOp[float64]{Priority: 3, Exec: func(x float64) (float64, error) { return -x, nil }},
		Binary: &infix.BinaryOp[float64]{Priority: 1, Exec: func(x, y float64) (float64, error) { return x - y, nil }},
	},
	"*": {Binary: &infix.BinaryOp[float64]{Priority: 2, Exec: func(x, y float64) (float64, error) { return x * y, nil }}},
	"/": {Binary: &infix.BinaryOp[float64]{Priority: 2, Exec: func(x, y float64) (float64, error) { return x / y, nil }}},
	"%": {Binary: &infix.BinaryOp[float64]{Priority: 2, Exec: func(x, y float64) (float64, error) { return math.Mod(x, y), nil }}},
	"^": {Binary: &infix.BinaryOp[float64]{Priority: 4, Exec: func(x, y float64) (float64, error) { return math.Pow(x, y), nil }}},
})

// Float returns arithmetic operators over float64. Binary + and - have
// priority 1; *, / and % have priority 2; unary + and - have priority 3; and
// ^ has priority 4. All binary operators, including ^, group left to right.
func Float() *infix.Table[float64] {
	return floatops
}

// ParseFloat returns a resolver that looks operands up in vars and
// otherwise parses them as numbers.
func ParseFloat(vars map[string]float64) infix.Resolver[float64] {
	return func(operand string) (float64, error) {
		if v, ok := vars[operand]; ok {
			return v, nil
		}
		v, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return 0, &OperandError{Operand: operand, Want: "number or variable"}
		}
		return v, nil
	}
}
