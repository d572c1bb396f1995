// Package tables provides ready-made operator tables and operand resolvers
// for package infix.
package tables

import (
	"strconv"

	"github.com/zephyrtronium/infix"
)

var boolops = infix.MustTable(map[string]infix.Operator[bool]{
	"|": {Binary: &infix.BinaryOp[bool]{Priority: 1, Exec: or}},
	"&": {Binary: &infix.BinaryOp[bool]{Priority: 2, Exec: and}},
	"!": {Unary: &infix.UnaryOp[bool]{Priority: 3, Exec: not}},
})

func or(x, y bool) (bool, error)  { return x || y, nil }
func and(x, y bool) (bool, error) { return x && y, nil }
func not(x bool) (bool, error)    { return !x, nil }

// Bool returns the boolean operators: binary | (or) at priority 1, binary &
// (and) at priority 2, and unary ! (not) at priority 3.
func Bool() *infix.Table[bool] {
	return boolops
}

// ParseBool resolves the operands true and 1 to true and false and 0 to
// false.
func ParseBool(operand string) (bool, error) {
	switch operand {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, &OperandError{Operand: operand, Want: "boolean"}
	}
}

// BoolSet returns a resolver that is true for each of names and false for
// any other operand.
func BoolSet(names ...string) infix.Resolver[bool] {
	m := make(map[string]bool, len(names))
	for _, name := range names {
		m[name] = true
	}
	return func(operand string) (bool, error) {
		return m[operand], nil
	}
}

// OperandError is an error from a resolver that does not understand an
// operand.
type OperandError struct {
	// Operand is the operand that was not understood.
	Operand string
	// Want describes what the resolver expects.
	Want string
}

func (err *OperandError) Error() string {
	return "not a " + err.Want + ": " + strconv.Quote(err.Operand)
}
