package rete

import "slices"

// A NegativeNode admits a token only while zero facts in its alpha memory
// satisfy the negated condition against the token's bindings. It stores its
// tokens itself (it doubles as the memory for the match-so-far) and tracks
// the blocking facts per token as negative join results.
//
// Unlike beta memories, negative nodes never unlink from their alpha
// memory: they must observe every arrival to know when a propagating token
// becomes blocked.
type NegativeNode struct {
	nodeCommon
	amem  *alphaMemory
	pat   pattern
	items []*token
}

func (n *NegativeNode) leftActivate(t *token, f *Fact, b Bindings) {
	tok := newToken(n, t, f, b)
	n.items = append(n.items, tok)

	for _, w := range n.amem.items {
		if _, ok := matchPattern(n.pat, b, w); ok {
			n.block(tok, w)
		}
	}
	if len(tok.joinResults) == 0 {
		for _, c := range n.children {
			c.leftActivate(tok, nil, b)
		}
	}
}

// rightActivate handles a fact newly satisfying the negated condition. A
// token that was propagating loses its downstream effect (the token itself
// survives, blocked) before the new join result is recorded.
func (n *NegativeNode) rightActivate(f *Fact) {
	for _, tok := range slices.Clone(n.items) {
		if _, ok := matchPattern(n.pat, tok.binding, f); ok {
			if len(tok.joinResults) == 0 {
				tok.deleteDescendents()
			}
			n.block(tok, f)
		}
	}
}

// block records f as suppressing tok, from both sides.
func (n *NegativeNode) block(tok *token, f *Fact) {
	jr := &negativeJoinResult{owner: tok, fact: f}
	tok.joinResults = append(tok.joinResults, jr)
	f.negativeJoinResults = append(f.negativeJoinResults, jr)
}

func (n *NegativeNode) removeItem(t *token) {
	i := slices.Index(n.items, t)
	if i < 0 {
		panic("rete: token missing from negative node")
	}
	n.items = slices.Delete(n.items, i, i+1)
}
