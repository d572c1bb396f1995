package infix

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Arity is the number of operands an operator consumes in a given position.
type Arity int8

const (
	// ArityNone is the arity of non-operator tokens.
	ArityNone Arity = iota
	// Unary operators take one operand, which follows them.
	Unary
	// Binary operators take two operands, one on each side.
	Binary
)

func (a Arity) String() string {
	switch a {
	case ArityNone:
		return ""
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	default:
		return "Arity(" + strconv.Itoa(int(a)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Arity) MarshalText() ([]byte, error) {
	if a < ArityNone || a > Binary {
		return nil, errors.New("infix: invalid arity " + a.String())
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Arity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*a = ArityNone
	case "unary":
		*a = Unary
	case "binary":
		*a = Binary
	default:
		return errors.New("infix: unknown arity " + string(text))
	}
	return nil
}

// UnaryOp is the unary form of an operator.
type UnaryOp[V any] struct {
	// Priority orders the operator relative to others. Higher binds more
	// tightly. Equal-priority unary operators group right to left.
	Priority int
	// Exec applies the operator to its operand.
	Exec func(x V) (V, error)
}

// BinaryOp is the binary form of an operator.
type BinaryOp[V any] struct {
	// Priority orders the operator relative to others. Higher binds more
	// tightly. Equal-priority binary operators group left to right.
	Priority int
	// Exec applies the operator to its left and right operands.
	Exec func(x, y V) (V, error)
}

// Operator describes the forms a symbol can take. At least one of Unary and
// Binary must be non-nil. When both are set, the tokenizer chooses between
// them from the left context of each occurrence, so that e.g. "-" can be
// both negation and subtraction.
type Operator[V any] struct {
	Unary  *UnaryOp[V]
	Binary *BinaryOp[V]
}

// priority returns the operator's priority for the given arity and whether
// the operator has that form.
func (o Operator[V]) priority(a Arity) (int, bool) {
	switch a {
	case Unary:
		if o.Unary != nil {
			return o.Unary.Priority, true
		}
	case Binary:
		if o.Binary != nil {
			return o.Binary.Priority, true
		}
	}
	return 0, false
}

// Table is a validated set of operators over values of type V. A Table is
// immutable and safe to share between goroutines.
type Table[V any] struct {
	ops  map[string]Operator[V]
	syms []string
	// re matches the longest operator symbol at the start of its input.
	re *regexp.Regexp
}

// NewTable validates a set of operators and creates a Table from it. The
// map is copied. If ops is empty, the error is ErrMissingOperators.
//
// Symbols always match longest first. If a table has both "-" and "--",
// then "--3" scans as the single operator "--", and fails if "--" has no
// unary form; write "- -3" for double negation.
func NewTable[V any](ops map[string]Operator[V]) (*Table[V], error) {
	if len(ops) == 0 {
		return nil, ErrMissingOperators
	}
	t := Table[V]{
		ops:  make(map[string]Operator[V], len(ops)),
		syms: make([]string, 0, len(ops)),
	}
	for sym, op := range ops {
		if err := checkop(sym, op); err != nil {
			return nil, err
		}
		t.ops[sym] = op
		t.syms = append(t.syms, sym)
	}
	// Longest first, so that alternation in the pattern prefers "<=" to "<".
	sort.Slice(t.syms, func(i, j int) bool {
		if len(t.syms[i]) != len(t.syms[j]) {
			return len(t.syms[i]) > len(t.syms[j])
		}
		return t.syms[i] < t.syms[j]
	})
	quoted := make([]string, len(t.syms))
	for i, sym := range t.syms {
		quoted[i] = regexp.QuoteMeta(sym)
	}
	t.re = regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)`)
	return &t, nil
}

// MustTable is like NewTable but panics on error. It simplifies
// initialization of package-level tables.
func MustTable[V any](ops map[string]Operator[V]) *Table[V] {
	t, err := NewTable(ops)
	if err != nil {
		panic("infix: MustTable: " + err.Error())
	}
	return t
}

func checkop[V any](sym string, op Operator[V]) error {
	switch {
	case sym == "":
		return &TableError{Symbol: sym, Reason: "empty symbol"}
	case strings.ContainsAny(sym, "()"):
		return &TableError{Symbol: sym, Reason: "symbol contains a bracket"}
	case strings.IndexFunc(sym, unicode.IsSpace) >= 0:
		return &TableError{Symbol: sym, Reason: "symbol contains whitespace"}
	case op.Unary == nil && op.Binary == nil:
		return &TableError{Symbol: sym, Reason: "no unary or binary form"}
	case op.Unary != nil && op.Unary.Exec == nil:
		return &TableError{Symbol: sym, Reason: "unary form has no Exec"}
	case op.Binary != nil && op.Binary.Exec == nil:
		return &TableError{Symbol: sym, Reason: "binary form has no Exec"}
	}
	return nil
}

// empty reports whether t has no operators, as a nil or zero Table does.
func (t *Table[V]) empty() bool {
	return t == nil || len(t.ops) == 0
}

// Lookup returns the operator for a symbol.
func (t *Table[V]) Lookup(sym string) (Operator[V], bool) {
	op, ok := t.ops[sym]
	return op, ok
}

// Symbols returns the table's operator symbols, longest first.
func (t *Table[V]) Symbols() []string {
	return append([]string(nil), t.syms...)
}

// match returns the length in bytes of the longest operator symbol at the
// start of s, or 0 if none.
func (t *Table[V]) match(s string) int {
	loc := t.re.FindStringIndex(s)
	if loc == nil {
		return 0
	}
	return loc[1]
}
