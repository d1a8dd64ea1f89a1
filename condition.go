package rete

import (
	"fmt"
	"reflect"
)

// A Condition is one element of a production's condition chain. The closed
// set of implementations is Cond (positive pattern), Neg (negated pattern),
// Ncc (negated conjunction of conditions) and Bind (computed binding).
//
// Pattern fields hold either a Variable or a constant. A nil field means
// "don't care": it compiles to a fresh anonymous variable.
type Condition interface {
	condition()
}

// Cond matches one fact. Variables bound here are available to every later
// condition in the chain.
type Cond struct {
	ID    any
	Attr  any
	Value any
}

// Neg blocks the match while any fact satisfies the pattern. Variables not
// bound earlier act as wildcards and do not escape the condition.
type Neg struct {
	ID    any
	Attr  any
	Value any
}

// Ncc blocks the match while the whole sub-chain of conditions is
// simultaneously satisfiable. Sub-chain bindings do not escape.
type Ncc []Condition

// Bind computes Fn over the declared parameters and binds the result to
// Var. If Var is already bound, a differing result blocks the match
// instead (a silent non-match, never an error).
type Bind struct {
	Var    Variable
	Params []Variable
	Fn     BindFunc
}

func (Cond) condition() {}
func (Neg) condition()  {}
func (Ncc) condition()  {}
func (Bind) condition() {}

// validateConditions rejects malformed chains before any node is built, so
// AddProduction never partially applies.
func validateConditions(conds []Condition) error {
	bound := map[Variable]bool{}
	return validateChain(conds, bound, false)
}

func validateChain(conds []Condition, bound map[Variable]bool, sub bool) error {
	if len(conds) == 0 {
		if sub {
			return fmt.Errorf("empty negated conjunction")
		}
		return fmt.Errorf("production requires at least one condition")
	}
	if _, ok := conds[0].(Cond); !ok {
		if sub {
			return fmt.Errorf("negated conjunction must start with a positive condition")
		}
		return fmt.Errorf("condition chain must start with a positive condition")
	}

	for i, c := range conds {
		switch c := c.(type) {
		case Cond:
			for _, f := range []any{c.ID, c.Attr, c.Value} {
				if v, ok := f.(Variable); ok {
					bound[v] = true
					continue
				}
				if err := validPatternConstant(f); err != nil {
					return fmt.Errorf("condition %d: %w", i, err)
				}
			}
		case Neg:
			// Unbound variables act as wildcards; only the constant
			// fields need checking.
			for _, f := range []any{c.ID, c.Attr, c.Value} {
				if _, ok := f.(Variable); ok {
					continue
				}
				if err := validPatternConstant(f); err != nil {
					return fmt.Errorf("condition %d: %w", i, err)
				}
			}
		case Ncc:
			if containsBind(c) {
				return fmt.Errorf("condition %d: bind conditions are not supported inside a negated conjunction", i)
			}
			// Sub-chain variables are scoped to the subnetwork.
			inner := make(map[Variable]bool, len(bound))
			for v := range bound {
				inner[v] = true
			}
			if err := validateChain(c, inner, true); err != nil {
				return fmt.Errorf("condition %d: %w", i, err)
			}
		case Bind:
			if c.Fn == nil {
				return fmt.Errorf("condition %d: bind function is nil", i)
			}
			if c.Var == "" {
				return fmt.Errorf("condition %d: bind target variable is empty", i)
			}
			for _, p := range c.Params {
				if p == NetParam {
					continue
				}
				if !bound[p] {
					return fmt.Errorf("condition %d: bind parameter %v is not bound by an earlier condition", i, p)
				}
			}
			bound[c.Var] = true
		default:
			return fmt.Errorf("condition %d: unknown condition type %T", i, c)
		}
	}
	return nil
}

// validPatternConstant rejects constants the pattern machinery cannot
// compare with ==. Nil is fine here (it compiles to a fresh variable).
func validPatternConstant(v any) error {
	if v == nil {
		return nil
	}
	if !reflect.TypeOf(v).Comparable() {
		return fmt.Errorf("uncomparable constant %T in pattern", v)
	}
	return nil
}

func containsBind(conds []Condition) bool {
	for _, c := range conds {
		switch c := c.(type) {
		case Bind:
			return true
		case Ncc:
			if containsBind(c) {
				return true
			}
		}
	}
	return false
}
