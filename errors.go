package infix

import (
	"errors"
	"strconv"
)

var (
	// ErrMissingOperators is returned when compiling with a nil or empty
	// operator table, or when creating a table from no operators.
	ErrMissingOperators = errors.New("infix: no operators")
	// ErrMissingResolver is returned when evaluating an expression without
	// an operand resolver.
	ErrMissingResolver = errors.New("infix: no operand resolver")
)

// EmptyExpressionError indicates that the input contained no tokens. It
// implements InputError.
type EmptyExpressionError struct {
	// Col is the position following the input.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return "expression is missing"
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TokenError indicates a token that cannot appear where it did, e.g. two
// adjacent operands or a binary-only operator at the start of an expression.
// It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the token.
	Text string
	// Arity is the arity the token would have had, if it is an operator.
	Arity Arity
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Text))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// EndError indicates an expression that ends where more input is required,
// e.g. after a binary operator. It implements InputError.
type EndError struct {
	// Col is the position following the input.
	Col int
	// Last is the final token of the input.
	Last string
}

func (err *EndError) Error() string {
	return errpos(err.Col, "unexpected end of expression after "+strconv.Quote(err.Last))
}

func (err *EndError) Pos() int {
	return err.Col
}

// BracketError indicates unbalanced brackets. It implements InputError.
type BracketError struct {
	// Col is the position of the bracket that has no partner, or the
	// position following the input if the error was found at the end.
	Col int
	// Lost is "(" when an opening bracket is missing and ")" when a closing
	// bracket is missing.
	Lost string
	// N is the number of missing brackets.
	N int
}

func (err *BracketError) Error() string {
	s := "lost closing bracket"
	if err.Lost == "(" {
		s = "lost opening bracket"
	}
	if err.N > 1 {
		s += "s"
	}
	return errpos(err.Col, s)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// PatternError indicates an operand that does not match the operand
// pattern. It implements InputError.
type PatternError struct {
	// Col is the position of the operand.
	Col int
	// Text is the operand.
	Text string
	// Pattern is the operand pattern that failed to match.
	Pattern string
}

func (err *PatternError) Error() string {
	return errpos(err.Col, "invalid operand "+strconv.Quote(err.Text)+" (want "+err.Pattern+")")
}

func (err *PatternError) Pos() int {
	return err.Col
}

// OperatorError indicates an operator token that is not understood by the
// table it is used with. It is returned when loading a stored postfix
// sequence. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Arity is the form the token required.
	Arity Arity
}

func (err *OperatorError) Error() string {
	s := "unknown operator "
	if err.Arity != ArityNone {
		s = "unknown " + err.Arity.String() + " operator "
	}
	return errpos(err.Col, s+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// StackError indicates a postfix sequence that does not leave exactly one
// value, including one that needs more operands than are available. Compiled
// expressions never produce it; it arises from malformed stored sequences.
// It implements InputError.
type StackError struct {
	// Col is the position of the operator that lacked operands, or 0 if the
	// sequence ended with the wrong number of values.
	Col int
	// Operator is the operator that lacked operands, if any.
	Operator string
	// Have is the number of values on the stack.
	Have int
}

func (err *StackError) Error() string {
	if err.Operator == "" {
		return errpos(err.Col, "expression leaves "+strconv.Itoa(err.Have)+" values")
	}
	return errpos(err.Col, "missing operand for "+strconv.Quote(err.Operator))
}

func (err *StackError) Pos() int {
	return err.Col
}

// EvalError wraps an error returned by an operand resolver or an operator.
// It implements InputError.
type EvalError struct {
	// Col is the position of the operand or operator.
	Col int
	// Token is the operand or operator that failed.
	Token string
	// Err is the error the resolver or operator returned.
	Err error
}

func (err *EvalError) Error() string {
	return errpos(err.Col, "evaluating "+strconv.Quote(err.Token)+": "+err.Err.Error())
}

func (err *EvalError) Unwrap() error {
	return err.Err
}

func (err *EvalError) Pos() int {
	return err.Col
}

// TableError indicates an invalid operator definition.
type TableError struct {
	// Symbol is the operator's symbol.
	Symbol string
	// Reason describes the problem.
	Reason string
}

func (err *TableError) Error() string {
	return "infix: operator " + strconv.Quote(err.Symbol) + ": " + err.Reason
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*EndError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*PatternError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*StackError)(nil)
	_ InputError = (*EvalError)(nil)
)
