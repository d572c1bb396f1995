package infix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Expr is a compiled expression that can be evaluated many times with
// different resolvers. An Expr is immutable and safe for concurrent use,
// provided its operators and resolvers are.
type Expr[V any] struct {
	src  string
	seq  []Token
	ops  *Table[V]
	dflt Resolver[V]
}

// Compile compiles an infix expression using cfg. cfg.Operators is
// required. If cfg.Resolver is set, it becomes the expression's default
// resolver.
func Compile[V any](src string, cfg Config[V]) (*Expr[V], error) {
	if cfg.Operators.empty() {
		return nil, ErrMissingOperators
	}
	pat := cfg.pattern()
	re, err := anchor(pat)
	if err != nil {
		return nil, fmt.Errorf("infix: bad operand pattern: %w", err)
	}
	toks, err := tokenize(src, cfg.Operators, re, pat)
	if err != nil {
		return nil, err
	}
	e := Expr[V]{
		src:  src,
		seq:  postfix(toks),
		ops:  cfg.Operators,
		dflt: cfg.Resolver,
	}
	return &e, nil
}

// MustCompile is like Compile but panics if the expression cannot be
// compiled. It simplifies initialization of global variables.
func MustCompile[V any](src string, cfg Config[V]) *Expr[V] {
	e, err := Compile(src, cfg)
	if err != nil {
		panic(fmt.Sprintf("infix: Compile(%q): %v", src, err))
	}
	return e
}

// Eval evaluates the expression. If r is nil, the expression's default
// resolver is used; if there is none, the error is ErrMissingResolver.
func (e *Expr[V]) Eval(r Resolver[V]) (V, error) {
	if r == nil {
		r = e.dflt
	}
	if r == nil {
		var zero V
		return zero, ErrMissingResolver
	}
	return evaluate(e.seq, e.ops, r)
}

// Postfix returns a copy of the expression's postfix token sequence.
func (e *Expr[V]) Postfix() []Token {
	return append([]Token(nil), e.seq...)
}

// Source returns the text the expression was compiled from. Expressions
// created by Load have no source.
func (e *Expr[V]) Source() string {
	return e.src
}

// Operands returns the distinct operands of the expression in sorted order.
func (e *Expr[V]) Operands() []string {
	seen := make(map[string]bool)
	var r []string
	for _, tok := range e.seq {
		if tok.Kind == KindOperand && !seen[tok.Text] {
			seen[tok.Text] = true
			r = append(r, tok.Text)
		}
	}
	sort.Strings(r)
	return r
}

// String formats the postfix sequence with tokens separated by spaces.
func (e *Expr[V]) String() string {
	var b strings.Builder
	for i, tok := range e.seq {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// MarshalJSON encodes the postfix sequence as a JSON array of tokens. Decode
// reverses it. Operator symbols such as & are not HTML-escaped.
func (e *Expr[V]) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e.seq); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}

// Load creates an expression from a stored postfix sequence, e.g. one
// obtained from Postfix. Every operator must have the recorded form in
// cfg.Operators, and every operand must match the operand pattern. Operator
// priorities are taken from the table. Load does not check that the
// sequence is balanced; an unbalanced sequence fails with a *StackError when
// evaluated.
func Load[V any](seq []Token, cfg Config[V]) (*Expr[V], error) {
	if cfg.Operators.empty() {
		return nil, ErrMissingOperators
	}
	if len(seq) == 0 {
		return nil, &EmptyExpressionError{Col: 1}
	}
	pat := cfg.pattern()
	re, err := anchor(pat)
	if err != nil {
		return nil, fmt.Errorf("infix: bad operand pattern: %w", err)
	}
	e := Expr[V]{
		seq:  make([]Token, len(seq)),
		ops:  cfg.Operators,
		dflt: cfg.Resolver,
	}
	for i, tok := range seq {
		switch tok.Kind {
		case KindOperand:
			if !re.MatchString(tok.Text) {
				return nil, &PatternError{Col: tok.Pos, Text: tok.Text, Pattern: pat}
			}
			tok.Arity, tok.Priority = ArityNone, 0
		case KindOperator:
			op, _ := cfg.Operators.Lookup(tok.Text)
			p, ok := op.priority(tok.Arity)
			if !ok {
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Arity: tok.Arity}
			}
			tok.Priority = p
		default:
			return nil, &TokenError{Col: tok.Pos, Text: tok.Text}
		}
		e.seq[i] = tok
	}
	return &e, nil
}

// Decode creates an expression from the JSON encoding produced by
// MarshalJSON.
func Decode[V any](data []byte, cfg Config[V]) (*Expr[V], error) {
	var seq []Token
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("infix: decoding postfix: %w", err)
	}
	return Load(seq, cfg)
}
