package infix_test

import (
	"encoding/json"
	"errors"
	"regexp/syntax"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/infix"
	"github.com/zephyrtronium/infix/tables"
)

var boolcfg = infix.Config[bool]{Operators: tables.Bool()}

func texts(toks []infix.Token) []string {
	r := make([]string, len(toks))
	for i, tok := range toks {
		r[i] = tok.Text
	}
	return r
}

func TestBoolean(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"1 | 1 & 0", true},
		{"1 & 0 | 0", false},
		{"(1 | 0) & 1", true},
		{"(1 | 0) & (0 & 1)", false},
		{"(1 | 0 | 1) | (0 & 1)", true},
		{"!1", false},
		{"!1 | 1", true},
		{"!0 | !1 | 1", true},
		{"!0 & !0", true},
		{"!(1)", false},
		{"!(1 & 0)", true},
		{"!!(1 & 0)", false},
		{"!!1", true},
		{"!!!!1", true},
		{"true&false", false},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := infix.Compile(c.src, boolcfg)
			if err != nil {
				t.Fatal(err)
			}
			got, err := e.Eval(tables.ParseBool)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("want %t, got %t", c.want, got)
			}
		})
	}
}

func TestBooleanOperands(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"op1", true},
		{"op1 & op2 & op3", true},
		{"op1 & nop1", false},
		{"(op1 | op2) & nop1", false},
		{"(op1 | nop1) & op2", true},
		{"(op1 | nop1) & (!op2 | !nop2)", true},
	}
	r := tables.BoolSet("op1", "op2", "op3")
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got, err := infix.MustCompile(c.src, boolcfg).Eval(r)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("want %t, got %t", c.want, got)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"x + y", 5},
		{"-x*-x", 4},
		{"2*x*x + 4*x - 3", 13},
		{"7*x - 3*y*x + 3*-x", -10},
		{"2", 2},
		{"2 + 2", 4},
		{"2*3 + 4", 10},
		{"18 / 3 * 2", 12},
		{"18 / (3 * 2)", 3},
		{"-(2+2)", -4},
		{"5 * -3", -15},
		{"5 % 3", 2},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"7 - 3 - 2", 2},
		{"- - 3", 3},
		{"2 ^ 3 ^ 2", 64},
		{"-2 ^ 2", -4},
		{"1.5 * 2", 3},
	}
	cfg := infix.Config[float64]{
		Operators:      tables.Float(),
		OperandPattern: tables.NumberPattern,
		Resolver:       tables.ParseFloat(map[string]float64{"x": 2, "y": 3}),
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := infix.Compile(c.src, cfg)
			if err != nil {
				t.Fatal(err)
			}
			got, err := e.Eval(nil)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("want %g, got %g", c.want, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	e, err := infix.Compile("a & b | c", boolcfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "&", "c", "|"}
	if diff := cmp.Diff(want, texts(e.Postfix())); diff != "" {
		t.Errorf("wrong postfix (-want +got):\n%s", diff)
	}
	if got := e.String(); got != "a b & c |" {
		t.Errorf("wrong string %q", got)
	}
	v, err := e.Eval(tables.BoolSet("a", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if !v {
		t.Error("a & b | c is false with a, c true")
	}
}

func TestDoubleNegation(t *testing.T) {
	exprs := []string{"a", "!a", "a & b", "a | b", "!a | b & !b", "(a | b) & !(a & b)"}
	for _, x := range exprs {
		e := infix.MustCompile(x, boolcfg)
		nn := infix.MustCompile("!!("+x+")", boolcfg)
		for _, names := range [][]string{nil, {"a"}, {"b"}, {"a", "b"}} {
			r := tables.BoolSet(names...)
			want, err := e.Eval(r)
			if err != nil {
				t.Fatal(err)
			}
			got, err := nn.Eval(r)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("!!(%s) with %v: want %t, got %t", x, names, want, got)
			}
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
		pos  int
	}{
		{"empty", "", "expression is missing", 1},
		{"operands", "1 1", `3: unexpected token "1"`, 3},
		{"lost-close", "(1", "3: lost closing bracket", 3},
		{"lost-closes", "((1", "4: lost closing brackets", 4},
		{"lost-open", "1)", "2: lost opening bracket", 2},
		{"end", "a |", `4: unexpected end of expression after "|"`, 4},
		{"binary-start", "& 1", `1: unexpected token "&"`, 1},
		{"invalid", "invalid:~", `1: invalid operand "invalid:~" (want [A-Za-z0-9_]+)`, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := infix.Compile(c.src, boolcfg)
			if e != nil {
				t.Errorf("got expression %v with error", e)
			}
			if err == nil {
				t.Fatal("no error")
			}
			if err.Error() != c.msg {
				t.Errorf("wrong message: want %q, got %q", c.msg, err.Error())
			}
			var ierr infix.InputError
			if !errors.As(err, &ierr) {
				t.Fatalf("%v is not an InputError", err)
			}
			if ierr.Pos() != c.pos {
				t.Errorf("wrong position: want %d, got %d", c.pos, ierr.Pos())
			}
		})
	}
}

func TestCompileErrorTypes(t *testing.T) {
	var (
		empty   *infix.EmptyExpressionError
		token   *infix.TokenError
		bracket *infix.BracketError
		end     *infix.EndError
	)
	cases := []struct {
		src    string
		target any
	}{
		{"", &empty},
		{"  \t", &empty},
		{"1 1", &token},
		{"|", &token},
		{")", &token},
		{"!|", &token},
		{"()", &token},
		{"(1)!", &token},
		{"(1", &bracket},
		{"1)", &bracket},
		{"a | b)", &bracket},
		{"(a | b) & c)", &bracket},
		{"(a | b", &bracket},
		{"(c & (a | b)", &bracket},
		{"a |", &end},
		{"!", &end},
		{"(", &end},
	}
	for _, c := range cases {
		_, err := infix.Compile(c.src, boolcfg)
		if !errors.As(err, c.target) {
			t.Errorf("compiling %q: wrong error type %T", c.src, err)
		}
	}
}

func TestEndErrorArithmetic(t *testing.T) {
	_, err := infix.Compile("1 +", infix.Config[float64]{Operators: tables.Float()})
	want := &infix.EndError{Col: 4, Last: "+"}
	if diff := cmp.Diff(want, err); diff != "" {
		t.Errorf("wrong error (-want +got):\n%s", diff)
	}
}

func TestMissingConfig(t *testing.T) {
	if _, err := infix.Compile("1", infix.Config[bool]{}); err != infix.ErrMissingOperators {
		t.Errorf("no operators: want ErrMissingOperators, got %v", err)
	}
	zero := infix.Config[bool]{Operators: &infix.Table[bool]{}}
	if _, err := infix.Compile("a", zero); err != infix.ErrMissingOperators {
		t.Errorf("zero table: want ErrMissingOperators, got %v", err)
	}
	a := []infix.Token{{Text: "a", Kind: infix.KindOperand, Pos: 1}}
	if _, err := infix.Load(a, zero); err != infix.ErrMissingOperators {
		t.Errorf("loading with zero table: want ErrMissingOperators, got %v", err)
	}
	if _, err := infix.NewCompiler(zero, 0); err != infix.ErrMissingOperators {
		t.Errorf("compiler with zero table: want ErrMissingOperators, got %v", err)
	}
	e := infix.MustCompile("1", boolcfg)
	if _, err := e.Eval(nil); err != infix.ErrMissingResolver {
		t.Errorf("no resolver: want ErrMissingResolver, got %v", err)
	}
	_, err := infix.Compile("1", boolcfg.Merge(infix.Config[bool]{OperandPattern: "("}))
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		t.Errorf("bad pattern: want regexp syntax error, got %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile on invalid expression did not panic")
		}
	}()
	infix.MustCompile("1 1", boolcfg)
}

func TestOperandPattern(t *testing.T) {
	cfg := boolcfg.Merge(infix.Config[bool]{OperandPattern: `[a-z]+`})
	if _, err := infix.Compile("a & b", cfg); err != nil {
		t.Errorf("valid operands: %v", err)
	}
	_, err := infix.Compile("a & 1", cfg)
	want := &infix.PatternError{Col: 5, Text: "1", Pattern: "[a-z]+"}
	if diff := cmp.Diff(want, err); diff != "" {
		t.Errorf("wrong error (-want +got):\n%s", diff)
	}
	// The pattern must match entire operands.
	if _, err := infix.Compile("ab1", cfg); err == nil {
		t.Error("partial match accepted")
	}
}

func TestLoad(t *testing.T) {
	e := infix.MustCompile("!a | b & c", boolcfg)
	l, err := infix.Load(e.Postfix(), boolcfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(e.Postfix(), l.Postfix()); diff != "" {
		t.Errorf("loaded postfix differs (-compiled +loaded):\n%s", diff)
	}
	if l.Source() != "" {
		t.Errorf("loaded expression has source %q", l.Source())
	}
	for _, names := range [][]string{nil, {"a"}, {"b", "c"}, {"a", "b", "c"}} {
		r := tables.BoolSet(names...)
		want, _ := e.Eval(r)
		got, err := l.Eval(r)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("with %v: want %t, got %t", names, want, got)
		}
	}
}

func TestLoadPriorities(t *testing.T) {
	seq := []infix.Token{
		{Text: "a", Kind: infix.KindOperand, Arity: infix.Binary, Priority: 7, Pos: 1},
		{Text: "!", Kind: infix.KindOperator, Arity: infix.Unary, Priority: 99, Pos: 2},
	}
	l, err := infix.Load(seq, boolcfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []infix.Token{
		{Text: "a", Kind: infix.KindOperand, Pos: 1},
		{Text: "!", Kind: infix.KindOperator, Arity: infix.Unary, Priority: 3, Pos: 2},
	}
	if diff := cmp.Diff(want, l.Postfix()); diff != "" {
		t.Errorf("wrong sequence (-want +got):\n%s", diff)
	}
	if seq[1].Priority != 99 {
		t.Error("Load modified its input")
	}
}

func TestLoadErrors(t *testing.T) {
	a := infix.Token{Text: "a", Kind: infix.KindOperand, Pos: 1}
	cases := []struct {
		name string
		seq  []infix.Token
		cfg  infix.Config[bool]
		err  error
	}{
		{"no-operators", []infix.Token{a}, infix.Config[bool]{}, infix.ErrMissingOperators},
		{"empty", nil, boolcfg, &infix.EmptyExpressionError{Col: 1}},
		{"pattern", []infix.Token{{Text: "a b", Kind: infix.KindOperand, Pos: 4}}, boolcfg, &infix.PatternError{Col: 4, Text: "a b", Pattern: infix.DefaultOperandPattern}},
		{"unknown", []infix.Token{a, a, {Text: "^", Kind: infix.KindOperator, Arity: infix.Binary, Pos: 3}}, boolcfg, &infix.OperatorError{Col: 3, Operator: "^", Arity: infix.Binary}},
		{"wrong-arity", []infix.Token{a, a, {Text: "!", Kind: infix.KindOperator, Arity: infix.Binary, Pos: 3}}, boolcfg, &infix.OperatorError{Col: 3, Operator: "!", Arity: infix.Binary}},
		{"no-arity", []infix.Token{a, {Text: "!", Kind: infix.KindOperator, Pos: 2}}, boolcfg, &infix.OperatorError{Col: 2, Operator: "!"}},
		{"bracket", []infix.Token{{Text: "(", Kind: infix.KindOpen, Pos: 1}}, boolcfg, &infix.TokenError{Col: 1, Text: "("}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, err := infix.Load(c.seq, c.cfg)
			if l != nil {
				t.Errorf("got expression %v with error", l)
			}
			if diff := cmp.Diff(c.err, err, cmp.Comparer(func(x, y error) bool { return x == y || x.Error() == y.Error() })); diff != "" {
				t.Errorf("wrong error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadUnbalanced(t *testing.T) {
	a := infix.Token{Text: "a", Kind: infix.KindOperand, Pos: 1}
	amp := infix.Token{Text: "&", Kind: infix.KindOperator, Arity: infix.Binary, Pos: 2}
	cases := []struct {
		name string
		seq  []infix.Token
		err  error
	}{
		{"leftover", []infix.Token{a, a}, &infix.StackError{Have: 2}},
		{"underflow", []infix.Token{a, amp}, &infix.StackError{Col: 2, Operator: "&", Have: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, err := infix.Load(c.seq, boolcfg)
			if err != nil {
				t.Fatal(err)
			}
			_, err = l.Eval(tables.BoolSet("a"))
			if diff := cmp.Diff(c.err, err); diff != "" {
				t.Errorf("wrong error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	e := infix.MustCompile("a & !(b | c)", boolcfg)
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	d, err := infix.Decode(b, boolcfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(e.Postfix(), d.Postfix()); diff != "" {
		t.Errorf("decoded postfix differs (-compiled +decoded):\n%s", diff)
	}

	bad := []string{
		``,
		`{}`,
		`[{"text":"a","kind":"bracket","pos":1}]`,
		`[{"text":"a","kind":"operand","arity":"ternary","pos":1}]`,
		`[]`,
	}
	for _, s := range bad {
		if _, err := infix.Decode([]byte(s), boolcfg); err == nil {
			t.Errorf("decoding %s: no error", s)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	e := infix.MustCompile("a & b", boolcfg)
	b, err := e.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"text":"a","kind":"operand","pos":1},{"text":"b","kind":"operand","pos":5},{"text":"&","kind":"operator","arity":"binary","priority":2,"pos":3}]`
	if string(b) != want {
		t.Errorf("wrong encoding:\nwant %s\ngot  %s", want, b)
	}
}

func TestPostfixCopy(t *testing.T) {
	e := infix.MustCompile("a | b", boolcfg)
	p := e.Postfix()
	p[0].Text = "z"
	if e.String() != "a b |" {
		t.Errorf("modifying Postfix result changed expression to %q", e.String())
	}
}

func TestOperands(t *testing.T) {
	e := infix.MustCompile("b & a | !b & (c | a)", boolcfg)
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, e.Operands()); diff != "" {
		t.Errorf("wrong operands (-want +got):\n%s", diff)
	}
	if got := e.Source(); got != "b & a | !b & (c | a)" {
		t.Errorf("wrong source %q", got)
	}
}

func TestConcurrentEval(t *testing.T) {
	e := infix.MustCompile("x * x - 1", infix.Config[float64]{Operators: tables.Float()})
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x := float64(i)
			for j := 0; j < 100; j++ {
				v, err := e.Eval(tables.ParseFloat(map[string]float64{"x": x}))
				if err != nil {
					errs[i] = err
					return
				}
				if v != x*x-1 {
					errs[i] = errors.New("x=" + strconv.Itoa(i) + ": wrong result")
					return
				}
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestMerge(t *testing.T) {
	base := infix.Config[bool]{Operators: tables.Bool(), Resolver: tables.ParseBool}
	m := base.Merge(infix.Config[bool]{OperandPattern: "[a-z]+"})
	if m.Operators != tables.Bool() || m.OperandPattern != "[a-z]+" || m.Resolver == nil {
		t.Errorf("wrong merge %+v", m)
	}
	if base.OperandPattern != "" {
		t.Error("Merge modified its receiver")
	}
	other := infix.MustTable(map[string]infix.Operator[bool]{
		"^": {Binary: &infix.BinaryOp[bool]{Priority: 1, Exec: func(x, y bool) (bool, error) { return x != y, nil }}},
	})
	m = base.Merge(infix.Config[bool]{Operators: other})
	if m.Operators != other {
		t.Error("override operators lost")
	}
	v, err := infix.MustCompile("1 ^ 1", m).Eval(nil)
	if err != nil || v {
		t.Errorf("1 ^ 1 with merged config: %t, %v", v, err)
	}
	if m = base.Merge(infix.Config[bool]{}); m.Operators != base.Operators || m.Resolver == nil {
		t.Error("empty override changed config")
	}
}

func TestCompiler(t *testing.T) {
	if _, err := infix.NewCompiler(infix.Config[bool]{}, 2); err != infix.ErrMissingOperators {
		t.Errorf("no operators: want ErrMissingOperators, got %v", err)
	}
	if _, err := infix.NewCompiler(boolcfg.Merge(infix.Config[bool]{OperandPattern: "[a-"}), 2); err == nil {
		t.Error("no error with bad pattern")
	}
	c, err := infix.NewCompiler(boolcfg, 2)
	if err != nil {
		t.Fatal(err)
	}
	compile := func(src string) *infix.Expr[bool] {
		t.Helper()
		e, err := c.Compile(src)
		if err != nil {
			t.Fatalf("compiling %q: %v", src, err)
		}
		return e
	}
	a := compile("a")
	b := compile("b")
	if compile("a") != a {
		t.Error("a not cached")
	}
	compile("c") // evicts b
	if c.Len() != 2 {
		t.Errorf("want 2 cached, have %d", c.Len())
	}
	if compile("a") != a {
		t.Error("a evicted instead of b")
	}
	if compile("b") == b {
		t.Error("b not evicted")
	}
	if _, err := c.Compile("a &"); err == nil {
		t.Error("no error compiling invalid expression")
	}
	if c.Len() != 2 {
		t.Errorf("error cached: have %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("have %d after Clear", c.Len())
	}
	if c.Config().Operators != tables.Bool() {
		t.Error("wrong config")
	}
}

func TestCompilerEval(t *testing.T) {
	c, err := infix.NewCompiler(boolcfg.Merge(infix.Config[bool]{Resolver: tables.ParseBool}), 0)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				v, err := c.Eval("1 & !0", nil)
				if err != nil || !v {
					t.Errorf("1 & !0: %t, %v", v, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Errorf("want 1 cached, have %d", c.Len())
	}
	v, err := c.Eval("a | b", tables.BoolSet("b"))
	if err != nil || !v {
		t.Errorf("a | b with b: %t, %v", v, err)
	}
	if _, err := c.Eval("x", nil); err == nil {
		t.Error("no error from default resolver on unknown operand")
	}
	if _, err := c.Eval("(", nil); err == nil {
		t.Error("no error evaluating invalid expression")
	}
}
