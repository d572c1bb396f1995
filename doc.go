// Package infix compiles infix expressions over caller-defined operators into
// postfix sequences and evaluates them.
//
// Nothing about the syntax is built in except parentheses. A Table supplies
// the operator symbols, each with a unary form, a binary form, or both, and
// a priority for each form. An operand is anything between whitespace,
// brackets, and operator symbols, provided it matches the operand pattern.
// Whether a symbol is unary or binary is decided by what precedes it: at the
// start of an expression, after an operator, or after an open bracket it is
// unary, and otherwise it is binary. So with arithmetic operators, "- - 3"
// is 3 and "7 - 3 - 2" is 2.
//
// Compiling is the expensive step. An Expr holds the postfix sequence and
// can be evaluated any number of times, concurrently, with different
// resolvers that give meaning to operands. The postfix sequence can be
// stored with MarshalJSON and restored with Decode or Load.
//
// Package tables provides operator tables for booleans, floats,
// arbitrary-precision floats, and string sets.
package infix
