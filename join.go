package rete

import "slices"

// pattern is a compiled condition triple: each field is either a Variable
// or a constant. Constant fields have already been discharged by the alpha
// side; matchPattern re-tests them anyway so patterns are self-contained.
type pattern struct {
	identifier any
	attribute  any
	value      any
}

// matchPattern tests a fact against a pattern under the given bindings.
// A variable already bound must equal the fact's field; a variable seen for
// the first time is bound to it. The returned environment extends b without
// modifying it.
func matchPattern(p pattern, b Bindings, f *Fact) (Bindings, bool) {
	out := b
	fields := [3]struct {
		pat  any
		fact any
	}{
		{p.identifier, f.Identifier},
		{p.attribute, f.Attribute},
		{p.value, f.Value},
	}
	for _, fl := range fields {
		v, ok := fl.pat.(Variable)
		if !ok {
			if fl.pat != fl.fact {
				return nil, false
			}
			continue
		}
		if bound, exists := out.lookup(v); exists {
			if bound != fl.fact {
				return nil, false
			}
			continue
		}
		out = out.extend(v, fl.fact)
	}
	return out, true
}

// A JoinNode pairs the tokens of its beta memory with the facts of its
// alpha memory, admitting combinations whose variable bindings are
// consistent. Left and right activation must produce the same downstream
// matches regardless of which side arrived first.
type JoinNode struct {
	nodeCommon
	mem      *BetaMemory
	amem     *alphaMemory
	pat      pattern
	unlinked bool
}

func (j *JoinNode) leftActivate(t *token, _ *Fact, b Bindings) {
	for _, f := range slices.Clone(j.amem.items) {
		if nb, ok := matchPattern(j.pat, b, f); ok {
			for _, c := range j.children {
				c.leftActivate(t, f, nb)
			}
		}
	}
}

func (j *JoinNode) rightActivate(f *Fact) {
	for _, t := range slices.Clone(j.mem.items) {
		if nb, ok := matchPattern(j.pat, t.binding, f); ok {
			for _, c := range j.children {
				c.leftActivate(t, f, nb)
			}
		}
	}
}

func (j *JoinNode) unlinkFromAlpha() {
	if j.unlinked {
		return
	}
	j.amem.removeSuccessor(j)
	j.unlinked = true
}

func (j *JoinNode) relinkToAlpha() {
	if !j.unlinked {
		return
	}
	j.amem.successors = append(j.amem.successors, j)
	j.unlinked = false
}
