package infix

// Resolver converts an operand's text to a value. A resolver that does not
// understand an operand should return an error, which evaluation returns
// wrapped in an *EvalError.
type Resolver[V any] func(operand string) (V, error)

// machine is the value stack for evaluating one postfix sequence.
type machine[V any] struct {
	stack []V
}

func (m *machine[V]) push(v V) {
	m.stack = append(m.stack, v)
}

// pop removes the top of the stack. ok is false if the stack is empty.
func (m *machine[V]) pop() (v V, ok bool) {
	if len(m.stack) == 0 {
		return v, false
	}
	v = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, true
}

// evaluate runs a postfix sequence. Each operand is replaced by its resolved
// value and each operator by its result on the values it consumes.
func evaluate[V any](seq []Token, ops *Table[V], r Resolver[V]) (V, error) {
	var zero V
	m := machine[V]{stack: make([]V, 0, len(seq)/2+1)}
	for _, tok := range seq {
		switch tok.Kind {
		case KindOperand:
			v, err := r(tok.Text)
			if err != nil {
				return zero, &EvalError{Col: tok.Pos, Token: tok.Text, Err: err}
			}
			m.push(v)
		case KindOperator:
			op, ok := ops.Lookup(tok.Text)
			if !ok {
				panic("infix: operator " + tok.String() + " not in table (bad postfix?)")
			}
			v, err := m.apply(op, tok)
			if err != nil {
				return zero, err
			}
			m.push(v)
		default:
			panic("infix: unexpected token in postfix: " + tok.String())
		}
	}
	if len(m.stack) != 1 {
		return zero, &StackError{Have: len(m.stack)}
	}
	return m.stack[0], nil
}

// apply pops an operator's operands and executes it.
func (m *machine[V]) apply(op Operator[V], tok Token) (V, error) {
	var zero V
	underflow := func() error {
		return &StackError{Col: tok.Pos, Operator: tok.Text, Have: len(m.stack)}
	}
	switch tok.Arity {
	case Unary:
		if op.Unary == nil {
			panic("infix: no unary form for " + tok.String() + " (bad postfix?)")
		}
		x, ok := m.pop()
		if !ok {
			return zero, underflow()
		}
		v, err := op.Unary.Exec(x)
		if err != nil {
			return zero, &EvalError{Col: tok.Pos, Token: tok.Text, Err: err}
		}
		return v, nil
	case Binary:
		if op.Binary == nil {
			panic("infix: no binary form for " + tok.String() + " (bad postfix?)")
		}
		if len(m.stack) < 2 {
			return zero, underflow()
		}
		y, _ := m.pop()
		x, _ := m.pop()
		v, err := op.Binary.Exec(x, y)
		if err != nil {
			return zero, &EvalError{Col: tok.Pos, Token: tok.Text, Err: err}
		}
		return v, nil
	default:
		panic("infix: operator without arity: " + tok.String())
	}
}
