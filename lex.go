package infix

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a single token of an expression. Compiled expressions expose
// their postfix sequence as tokens of kind KindOperand and KindOperator.
type Token struct {
	// Text is the token as it appeared in the source.
	Text string `json:"text" yaml:"text"`
	// Kind is the token's category.
	Kind Kind `json:"kind" yaml:"kind"`
	// Arity is the form of an operator token, decided from the token's left
	// context. It is ArityNone for other kinds.
	Arity Arity `json:"arity,omitempty" yaml:"arity,omitempty"`
	// Priority is the operator's priority for its arity.
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`
	// Pos is the 1-based rune position of the token in the source.
	Pos int `json:"pos" yaml:"pos"`
}

func (t Token) String() string {
	s := t.Kind.String() + ":" + t.Text
	if t.Arity != ArityNone {
		s += "/" + t.Arity.String()
	}
	return s + "@" + strconv.Itoa(t.Pos)
}

// Kind is the category of a token.
type Kind int8

const (
	// KindNone is the zero Kind; no token has it.
	KindNone Kind = iota
	// KindStart precedes the first token of an expression. It never appears
	// in token sequences.
	KindStart
	// KindOperand is anything that is not an operator or bracket.
	KindOperand
	// KindOperator is a symbol from the operator table.
	KindOperator
	// KindOpen is an open bracket, (.
	KindOpen
	// KindClose is a close bracket, ).
	KindClose
	// KindEnd indicates the end of the input.
	KindEnd
)

var kindnames = [...]string{
	KindNone:     "none",
	KindStart:    "start",
	KindOperand:  "operand",
	KindOperator: "operator",
	KindOpen:     "open",
	KindClose:    "close",
	KindEnd:      "end",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindnames) {
		return nil, errors.New("infix: invalid token kind " + k.String())
	}
	return []byte(kindnames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, s := range kindnames {
		if s == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return errors.New("infix: unknown token kind " + strconv.Quote(string(text)))
}

// category is a grammatical category of a token. It differs from Kind in
// that operators are split by arity.
type category uint8

const (
	catStart category = iota
	catOperand
	catUnary
	catBinary
	catOpen
	catClose
	catEnd
)

type catset uint8

func cats(c ...category) catset {
	var s catset
	for _, v := range c {
		s |= 1 << v
	}
	return s
}

func (s catset) has(c category) bool {
	return s&(1<<c) != 0
}

// grammar lists the categories that may follow each category.
var grammar = [...]catset{
	catStart:   cats(catOperand, catOpen, catUnary),
	catOperand: cats(catBinary, catClose, catEnd),
	catUnary:   cats(catOperand, catOpen, catUnary),
	catBinary:  cats(catOperand, catOpen, catUnary),
	catOpen:    cats(catOperand, catOpen, catUnary),
	catClose:   cats(catBinary, catClose, catEnd),
	catEnd:     0,
}

func categorize(tok Token) category {
	switch tok.Kind {
	case KindStart:
		return catStart
	case KindOperand:
		return catOperand
	case KindOperator:
		if tok.Arity == Unary {
			return catUnary
		}
		return catBinary
	case KindOpen:
		return catOpen
	case KindClose:
		return catClose
	case KindEnd:
		return catEnd
	default:
		panic("infix: no category for token " + tok.String())
	}
}

// DefaultOperandPattern is the operand pattern used when none is given.
const DefaultOperandPattern = `[A-Za-z0-9_]+`

type lexer[V any] struct {
	src string
	// off is the byte offset of the next unscanned rune.
	off int
	// col is the 1-based rune position of off.
	col int
	ops *Table[V]
}

// next scans the next token. prev is the previously scanned token, which
// decides the arity of operators.
func (l *lexer[V]) next(prev Token) Token {
	for l.off < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.off:])
		if !unicode.IsSpace(r) {
			break
		}
		l.off += sz
		l.col++
	}
	tok := Token{Pos: l.col}
	if l.off >= len(l.src) {
		tok.Kind = KindEnd
		return tok
	}
	switch l.src[l.off] {
	case '(':
		tok.Kind = KindOpen
		tok.Text = "("
		l.advance(1)
		return tok
	case ')':
		tok.Kind = KindClose
		tok.Text = ")"
		l.advance(1)
		return tok
	}
	if n := l.ops.match(l.src[l.off:]); n > 0 {
		tok.Kind = KindOperator
		tok.Text = l.src[l.off : l.off+n]
		switch prev.Kind {
		case KindStart, KindOperator, KindOpen:
			tok.Arity = Unary
		default:
			tok.Arity = Binary
		}
		l.advance(n)
		return tok
	}
	// Operand. It extends up to whitespace, a bracket, or an operator.
	_, sz := utf8.DecodeRuneInString(l.src[l.off:])
	end := l.off + sz
	for end < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[end:])
		if unicode.IsSpace(r) || r == '(' || r == ')' || l.ops.match(l.src[end:]) > 0 {
			break
		}
		end += sz
	}
	tok.Kind = KindOperand
	tok.Text = l.src[l.off:end]
	l.advance(end - l.off)
	return tok
}

// advance moves past n bytes of input.
func (l *lexer[V]) advance(n int) {
	l.col += utf8.RuneCountInString(l.src[l.off : l.off+n])
	l.off += n
}

// tokenize splits src into tokens and checks that they form a valid
// expression. operand is the anchored operand pattern and pattern is its
// source for error messages.
func tokenize[V any](src string, ops *Table[V], operand *regexp.Regexp, pattern string) ([]Token, error) {
	if strings.TrimFunc(src, unicode.IsSpace) == "" {
		return nil, &EmptyExpressionError{Col: utf8.RuneCountInString(src) + 1}
	}
	l := lexer[V]{src: src, col: 1, ops: ops}
	var toks []Token
	prev := Token{Kind: KindStart}
	depth := 0
	for {
		tok := l.next(prev)
		if tok.Kind == KindEnd {
			if !grammar[categorize(prev)].has(catEnd) {
				return nil, &EndError{Col: tok.Pos, Last: prev.Text}
			}
			if depth > 0 {
				return nil, &BracketError{Col: tok.Pos, Lost: ")", N: depth}
			}
			return toks, nil
		}
		if !grammar[categorize(prev)].has(categorize(tok)) {
			return nil, &TokenError{Col: tok.Pos, Text: tok.Text, Arity: tok.Arity}
		}
		switch tok.Kind {
		case KindOperator:
			op, _ := ops.Lookup(tok.Text)
			p, ok := op.priority(tok.Arity)
			if !ok {
				// E.g. a binary-only operator at the start of the input.
				return nil, &TokenError{Col: tok.Pos, Text: tok.Text, Arity: tok.Arity}
			}
			tok.Priority = p
		case KindOperand:
			if !operand.MatchString(tok.Text) {
				return nil, &PatternError{Col: tok.Pos, Text: tok.Text, Pattern: pattern}
			}
		case KindOpen:
			depth++
		case KindClose:
			depth--
			if depth < 0 {
				return nil, &BracketError{Col: tok.Pos, Lost: "(", N: 1}
			}
		}
		toks = append(toks, tok)
		prev = tok
	}
}

// anchor compiles an operand pattern so that it must match entire operands.
func anchor(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}
