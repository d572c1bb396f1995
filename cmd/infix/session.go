package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/zephyrtronium/infix"
	"github.com/zephyrtronium/infix/tables"
)

// session compiles and evaluates expressions with one operator table.
type session interface {
	eval(src string) (string, error)
	postfix(src string) ([]infix.Token, error)
}

type typed[V any] struct {
	c      *infix.Compiler[V]
	format func(V) string
}

func (s typed[V]) eval(src string) (string, error) {
	r, err := s.c.Eval(src, nil)
	if err != nil {
		return "", err
	}
	return s.format(r), nil
}

func (s typed[V]) postfix(src string) ([]infix.Token, error) {
	e, err := s.c.Compile(src)
	if err != nil {
		return nil, err
	}
	return e.Postfix(), nil
}

func newTyped[V any](cfg infix.Config[V], format func(V) string) (session, error) {
	c, err := infix.NewCompiler(cfg, 0)
	if err != nil {
		return nil, err
	}
	return typed[V]{c: c, format: format}, nil
}

// newSession creates a session from settings. verb is the format for
// numeric results; if empty, %g is used.
func newSession(o settings, verb string) (session, error) {
	if verb == "" {
		verb = "%g"
	}
	switch o.Table {
	case "bool":
		lit := infix.Config[bool]{Operators: tables.Bool(), OperandPattern: o.Pattern, Resolver: tables.ParseBool}
		vars, err := define(lit, o.Vars)
		if err != nil {
			return nil, err
		}
		lit.Resolver = lookup(vars, tables.ParseBool)
		return newTyped(lit, func(v bool) string { return fmt.Sprint(v) })
	case "float":
		lit := infix.Config[float64]{Operators: tables.Float(), OperandPattern: pattern(o.Pattern), Resolver: tables.ParseFloat(nil)}
		vars, err := define(lit, o.Vars)
		if err != nil {
			return nil, err
		}
		lit.Resolver = tables.ParseFloat(vars)
		return newTyped(lit, func(v float64) string { return fmt.Sprintf(verb, v) })
	case "big":
		lit := infix.Config[*big.Float]{Operators: tables.BigFloat(o.Prec), OperandPattern: pattern(o.Pattern), Resolver: tables.ParseBigFloat(o.Prec, nil)}
		vars, err := define(lit, o.Vars)
		if err != nil {
			return nil, err
		}
		lit.Resolver = tables.ParseBigFloat(o.Prec, vars)
		return newTyped(lit, func(v *big.Float) string { return fmt.Sprintf(verb, v) })
	case "set":
		vars := make(map[string]tables.Set, len(o.Vars))
		for name, items := range o.Vars {
			var s []string
			for _, item := range strings.Split(items, ",") {
				if item = strings.TrimSpace(item); item != "" {
					s = append(s, item)
				}
			}
			vars[name] = tables.NewSet(s...)
		}
		cfg := infix.Config[tables.Set]{Operators: tables.Sets(), OperandPattern: o.Pattern, Resolver: tables.SetVars(vars)}
		return newTyped(cfg, func(v tables.Set) string { return "{" + strings.Join(v.Sorted(), ", ") + "}" })
	default:
		return nil, fmt.Errorf("unknown table %q", o.Table)
	}
}

func pattern(p string) string {
	if p == "" {
		return tables.NumberPattern
	}
	return p
}

// define evaluates each variable definition as an expression with lit.
func define[V any](lit infix.Config[V], defs map[string]string) (map[string]V, error) {
	vars := make(map[string]V, len(defs))
	for name, src := range defs {
		e, err := infix.Compile(src, lit)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
		v, err := e.Eval(nil)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
		vars[name] = v
	}
	return vars, nil
}

// lookup returns a resolver that checks vars before falling back to r.
func lookup[V any](vars map[string]V, r infix.Resolver[V]) infix.Resolver[V] {
	return func(operand string) (V, error) {
		if v, ok := vars[operand]; ok {
			return v, nil
		}
		return r(operand)
	}
}
