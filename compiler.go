package infix

import "fmt"

// Compiler binds a configuration so that many expressions can be compiled
// and evaluated with it, caching compiled expressions by source text. A
// Compiler is safe for concurrent use.
type Compiler[V any] struct {
	cfg   Config[V]
	cache *cache[V]
}

// NewCompiler creates a compiler with a base configuration and a cache
// holding up to size compiled expressions. If size is not positive,
// DefaultCacheSize is used. cfg.Operators is required and must not be empty.
func NewCompiler[V any](cfg Config[V], size int) (*Compiler[V], error) {
	if cfg.Operators.empty() {
		return nil, ErrMissingOperators
	}
	if _, err := anchor(cfg.pattern()); err != nil {
		return nil, fmt.Errorf("infix: bad operand pattern: %w", err)
	}
	return &Compiler[V]{cfg: cfg, cache: newCache[V](size)}, nil
}

// Config returns the compiler's base configuration.
func (c *Compiler[V]) Config() Config[V] {
	return c.cfg
}

// Compile compiles src with the compiler's configuration, reusing a cached
// result if one exists.
func (c *Compiler[V]) Compile(src string) (*Expr[V], error) {
	return c.cache.getOrCompile(src, func() (*Expr[V], error) {
		return Compile(src, c.cfg)
	})
}

// Eval compiles src if needed and evaluates it. If r is nil, the
// configuration's resolver is used.
func (c *Compiler[V]) Eval(src string, r Resolver[V]) (V, error) {
	e, err := c.Compile(src)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.Eval(r)
}

// Len returns the number of cached expressions.
func (c *Compiler[V]) Len() int {
	return c.cache.len()
}

// Clear empties the cache.
func (c *Compiler[V]) Clear() {
	c.cache.clear()
}
