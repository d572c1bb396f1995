package tables

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/infix"
)

// BigFloat returns arithmetic operators over *big.Float computed to prec
// bits. The symbols and priorities are those of Float, plus unary exp and ln
// at priority 3. Because exp and ln are operator symbols, an operand never
// contains them: "lnx" is ln applied to x.
//
// Operators never modify their operands. Operations outside their domain,
// such as 0/0 or a negative base with ^, fail with a *DomainError.
func BigFloat(prec uint) *infix.Table[*big.Float] {
	z := func() *big.Float { return new(big.Float).SetPrec(prec) }
	unary := func(name string, f func(z, x *big.Float) *big.Float) *infix.UnaryOp[*big.Float] {
		return &infix.UnaryOp[*big.Float]{Priority: 3, Exec: func(x *big.Float) (r *big.Float, err error) {
			defer recoverNaN(name, x, &err)
			return f(z(), x), nil
		}}
	}
	binary := func(name string, p int, f func(z, x, y *big.Float) *big.Float) *infix.BinaryOp[*big.Float] {
		return &infix.BinaryOp[*big.Float]{Priority: p, Exec: func(x, y *big.Float) (r *big.Float, err error) {
			defer recoverNaN(name, y, &err)
			return f(z(), x, y), nil
		}}
	}
	return infix.MustTable(map[string]infix.Operator[*big.Float]{
		"+": {
			Unary:  unary("+", (*big.Float).Set),
			Binary: binary("+", 1, (*big.Float).Add),
		},
		"-": {
			Unary:  unary("-", (*big.Float).Neg),
			Binary: binary("-", 1, (*big.Float).Sub),
		},
		"*": {Binary: binary("*", 2, (*big.Float).Mul)},
		"/": {Binary: binary("/", 2, func(z, x, y *big.Float) *big.Float {
			// Guard against invalid divisions, 0/0 or inf/inf.
			if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
				panic(DomainError{X: y, Arg: 2, Func: "/"})
			}
			return z.Quo(x, y)
		})},
		"%": {Binary: binary("%", 2, bigmod)},
		"^": {Binary: binary("^", 4, func(z, x, y *big.Float) *big.Float {
			// TODO: allow negative base with integer exponent
			if x.Signbit() {
				panic(DomainError{X: x, Arg: 1, Func: "^"})
			}
			return bigfloat.Pow(z, x, y)
		})},
		"exp": {Unary: unary("exp", bigfloat.Exp)},
		"ln": {Unary: unary("ln", func(z, x *big.Float) *big.Float {
			if x.Sign() <= 0 {
				panic(DomainError{X: x, Arg: 1, Func: "ln"})
			}
			return bigfloat.Log(z, x)
		})},
	})
}

// bigmod sets z to x - y*trunc(x/y).
func bigmod(z, x, y *big.Float) *big.Float {
	if y.Sign() == 0 || x.IsInf() {
		panic(DomainError{X: y, Arg: 2, Func: "%"})
	}
	if y.IsInf() {
		return z.Set(x)
	}
	q := new(big.Float).SetPrec(z.Prec()).Quo(x, y)
	i, _ := q.Int(nil)
	q.SetInt(i)
	q.Mul(q, y)
	return z.Sub(x, q)
}

// recoverNaN converts a panic with a DomainError or big.ErrNaN into an
// error. Other panics continue.
func recoverNaN(name string, x *big.Float, err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, _ := r.(error)
	var nan big.ErrNaN
	switch {
	case errors.As(e, &DomainError{}):
		*err = e
	case errors.As(e, &nan):
		*err = DomainError{X: x, Func: name}
	default:
		panic(r)
	}
}

// ParseBigFloat returns a resolver that looks operands up in vars and
// otherwise parses them as numbers to prec bits. Numbers too large to
// represent resolve to infinity.
func ParseBigFloat(prec uint, vars map[string]*big.Float) infix.Resolver[*big.Float] {
	return func(operand string) (*big.Float, error) {
		if v, ok := vars[operand]; ok {
			return v, nil
		}
		r, _, err := new(big.Float).SetPrec(prec).Parse(operand, 0)
		switch {
		case err == nil:
			return r, nil
		case err.Error() == "exponent overflow",
			strings.HasSuffix(err.Error(), ": value out of range"):
			// There isn't realistically any better way to detect this error.
			return new(big.Float).SetPrec(prec).SetInf(false), nil
		default:
			return nil, &OperandError{Operand: operand, Want: "number or variable"}
		}
	}
}

// DomainError is an error returned when an operator is applied to arguments
// outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is the operator.
	Func string
}

func (err DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err DomainError) Unwrap() error {
	return big.ErrNaN{}
}
