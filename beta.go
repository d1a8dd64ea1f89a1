package rete

import "slices"

// A BetaMemory stores the tokens representing valid partial matches at one
// point in a condition chain.
type BetaMemory struct {
	nodeCommon
	items []*token

	// unlink enables the empty-memory optimization: when the last token
	// leaves, join successors detach from their alpha memories so idle
	// branches see no right activations.
	unlink bool
}

// leftActivate creates the token for the arriving partial match and hands
// it to every successor. The new token reaches all successors before any
// further propagation of a later token.
func (m *BetaMemory) leftActivate(t *token, f *Fact, b Bindings) {
	tok := newToken(m, t, f, b)
	m.items = append(m.items, tok)

	// An empty memory may have unlinked its joins; they are live again.
	for _, c := range m.children {
		if j, ok := c.(*JoinNode); ok {
			j.relinkToAlpha()
		}
	}
	for _, c := range m.children {
		c.leftActivate(tok, nil, b)
	}
}

func (m *BetaMemory) removeItem(t *token) {
	i := slices.Index(m.items, t)
	if i < 0 {
		panic("rete: token missing from beta memory")
	}
	m.items = slices.Delete(m.items, i, i+1)
}
