package infix

// Config holds the settings for compiling and evaluating expressions. Every
// field is optional; zero fields are filled in by Merge or by defaults.
type Config[V any] struct {
	// Operators is the operator table. Compiling requires one.
	Operators *Table[V]
	// OperandPattern is a regular expression that every operand must match
	// entirely. The default is DefaultOperandPattern.
	OperandPattern string
	// Resolver is the default operand resolver for evaluation. It is used
	// when Eval is called with a nil resolver.
	Resolver Resolver[V]
}

// Merge returns c with each field that is set in over replaced by over's
// value. Neither c nor over is modified.
func (c Config[V]) Merge(over Config[V]) Config[V] {
	if over.Operators != nil {
		c.Operators = over.Operators
	}
	if over.OperandPattern != "" {
		c.OperandPattern = over.OperandPattern
	}
	if over.Resolver != nil {
		c.Resolver = over.Resolver
	}
	return c
}

// pattern returns the operand pattern to use.
func (c Config[V]) pattern() string {
	if c.OperandPattern == "" {
		return DefaultOperandPattern
	}
	return c.OperandPattern
}
