package infix

// postfix reorders a valid token sequence into postfix order using the
// shunting-yard algorithm. Brackets are consumed; the result contains only
// operands and operators.
//
// A binary operator pops operators from the stack until the top binds less
// tightly, including equal priority, so binary operators group left to right.
// A unary operator has no left operand and pops nothing, so chains of them
// apply innermost first and "2 ^ -1" negates before raising.
func postfix(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	var stack []Token
	for _, tok := range toks {
		switch tok.Kind {
		case KindOperand:
			out = append(out, tok)
		case KindOperator:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != KindOperator || !yields(tok, top) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case KindOpen:
			stack = append(stack, tok)
		case KindClose:
			for {
				if len(stack) == 0 {
					panic("infix: close bracket without open bracket (bad tokens?)")
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == KindOpen {
					break
				}
				out = append(out, top)
			}
		default:
			panic("infix: unexpected token in compile: " + tok.String())
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind == KindOpen {
			panic("infix: open bracket without close bracket (bad tokens?)")
		}
		out = append(out, stack[i])
	}
	return out
}

// yields reports whether the operator on top of the stack must be emitted
// before tok is pushed.
func yields(tok, top Token) bool {
	if tok.Arity == Unary {
		return false
	}
	return tok.Priority <= top.Priority
}
