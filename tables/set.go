package tables

import (
	"sort"

	"github.com/zephyrtronium/infix"
)

// Set is a set of strings.
type Set map[string]struct{}

// NewSet creates a set containing items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Has reports whether item is in s.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the items of s in sorted order.
func (s Set) Sorted() []string {
	r := make([]string, 0, len(s))
	for item := range s {
		r = append(r, item)
	}
	sort.Strings(r)
	return r
}

var setops = infix.MustTable(map[string]infix.Operator[Set]{
	"+": {Binary: &infix.BinaryOp[Set]{Priority: 1, Exec: union}},
	"-": {Binary: &infix.BinaryOp[Set]{Priority: 1, Exec: difference}},
	"&": {Binary: &infix.BinaryOp[Set]{Priority: 2, Exec: intersection}},
})

// Sets returns operators over string sets: binary + (union) and -
// (difference) at priority 1, and binary & (intersection) at priority 2.
// The operators always create new sets.
func Sets() *infix.Table[Set] {
	return setops
}

func union(x, y Set) (Set, error) {
	r := make(Set, len(x)+len(y))
	for k := range x {
		r[k] = struct{}{}
	}
	for k := range y {
		r[k] = struct{}{}
	}
	return r, nil
}

func difference(x, y Set) (Set, error) {
	r := make(Set, len(x))
	for k := range x {
		if !y.Has(k) {
			r[k] = struct{}{}
		}
	}
	return r, nil
}

func intersection(x, y Set) (Set, error) {
	if len(y) < len(x) {
		x, y = y, x
	}
	r := make(Set)
	for k := range x {
		if y.Has(k) {
			r[k] = struct{}{}
		}
	}
	return r, nil
}

// SetVars returns a resolver that looks operands up in vars. Unknown
// operands are an error.
func SetVars(vars map[string]Set) infix.Resolver[Set] {
	return func(operand string) (Set, error) {
		s, ok := vars[operand]
		if !ok {
			return nil, &OperandError{Operand: operand, Want: "set"}
		}
		return s, nil
	}
}
