package rete

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidFact is returned when a fact field contains a Variable
	// (or nil). Facts must be fully ground.
	ErrInvalidFact = errors.New("invalid fact")

	// ErrUnknownProduction is returned when a production handle is not
	// (or no longer) registered with the network.
	ErrUnknownProduction = errors.New("production not found")
)

// A Variable is a named placeholder used in conditions and binding
// environments. Variables never appear inside a stored fact.
//
// Variables whose names begin with "_" are anonymous: they participate in
// matching like any other variable, but are omitted from reported match
// bindings. The compiler also generates anonymous variables for condition
// fields left nil.
type Variable string

func (v Variable) String() string { return "?" + string(v) }

// anonymous reports whether the variable is hidden from match results.
func (v Variable) anonymous() bool { return len(v) > 0 && v[0] == '_' }

// A Fact is an immutable identifier/attribute/value triple, the unit of
// working memory. Field values may be any comparable, non-variable Go value;
// equality between facts is structural.
//
// A fact carries back-references to the alpha memories holding it, the
// tokens built on it, and the negative-join results blocking on it. These
// exist only to drive the retraction cascade and are maintained by the
// network.
type Fact struct {
	Identifier any
	Attribute  any
	Value      any

	amems               []*alphaMemory
	tokens              []*token
	negativeJoinResults []*negativeJoinResult
}

func (f *Fact) String() string {
	return fmt.Sprintf("(%v ^%v %v)", f.Identifier, f.Attribute, f.Value)
}

func (f *Fact) key() factKey {
	return factKey{f.Identifier, f.Attribute, f.Value}
}

// factKey is the structural identity of a fact.
type factKey struct {
	identifier any
	attribute  any
	value      any
}

// validateFactField rejects variables, nil and uncomparable values in fact
// positions. Fact identity and pattern tests rely on ==, so slices, maps
// and functions must be turned away at the boundary.
func validateFactField(position string, v any) error {
	switch v.(type) {
	case nil:
		return fmt.Errorf("%w: nil %s", ErrInvalidFact, position)
	case Variable:
		return fmt.Errorf("%w: variable %v in %s", ErrInvalidFact, v, position)
	}
	if !reflect.TypeOf(v).Comparable() {
		return fmt.Errorf("%w: uncomparable %T in %s", ErrInvalidFact, v, position)
	}
	return nil
}

// removeToken unhooks a token from the fact's back-reference list.
// The token must be present; a miss indicates corrupted bookkeeping.
func (f *Fact) removeToken(t *token) {
	f.tokens = mustRemoveToken(f.tokens, t, "fact token list")
}

func (f *Fact) removeNegativeJoinResult(jr *negativeJoinResult) {
	for i, r := range f.negativeJoinResults {
		if r == jr {
			f.negativeJoinResults = append(f.negativeJoinResults[:i], f.negativeJoinResults[i+1:]...)
			return
		}
	}
	panic("rete: negative join result missing from fact block list")
}

// A negativeJoinResult records that a fact is currently suppressing a
// negative-node token. It is referenced from both sides (the token's
// joinResults and the fact's block list) so either side can clean up in
// constant passes.
type negativeJoinResult struct {
	owner *token
	fact  *Fact
}

// Bindings maps variables to the concrete values of one (partial) match.
// Once attached to a token chain a Bindings value is treated as immutable;
// nodes that add a binding produce a copy.
type Bindings map[Variable]any

func (b Bindings) lookup(v Variable) (any, bool) {
	val, ok := b[v]
	return val, ok
}

// extend returns a copy of b with v bound. The receiver is not modified.
func (b Bindings) extend(v Variable, value any) Bindings {
	nb := make(Bindings, len(b)+1)
	for k, val := range b {
		nb[k] = val
	}
	nb[v] = value
	return nb
}

// public returns a copy of b with anonymous variables removed. This is the
// form handed to callers.
func (b Bindings) public() Bindings {
	nb := make(Bindings, len(b))
	for k, v := range b {
		if k.anonymous() {
			continue
		}
		nb[k] = v
	}
	return nb
}
