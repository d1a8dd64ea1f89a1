package rete

import (
	"fmt"
	"slices"
)

// A token is one node in a match-provenance chain: the partial (or complete)
// match formed by extending parent with fact. Tokens live in exactly one
// memory node. A token's membership in its node's item list, in its fact's
// token list, and in its parent's child list are three views of the same
// thing; newToken establishes all of them and deleteTokenAndDescendents
// tears all of them down.
type token struct {
	parent   *token
	fact     *Fact
	node     betaNode
	children []*token
	binding  Bindings

	// joinResults is used only on tokens owned by negative nodes: the
	// facts currently blocking this token.
	joinResults []*negativeJoinResult

	// nccResults is used only on tokens owned by NCC nodes: the
	// subnetwork matches proving the negated conjunction holds.
	nccResults []*token

	// owner is used only on tokens owned by NCC partner nodes: the NCC
	// token this result counts against. Nil while the result sits in the
	// partner's buffer.
	owner *token
}

// newToken links the token into its parent's child list and its fact's
// token list. Storage in the owning node's item list is the node's job.
func newToken(node betaNode, parent *token, fact *Fact, binding Bindings) *token {
	t := &token{
		parent:  parent,
		fact:    fact,
		node:    node,
		binding: binding,
	}
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	if fact != nil {
		fact.tokens = append(fact.tokens, t)
	}
	return t
}

func (t *token) removeChild(c *token) {
	t.children = mustRemoveToken(t.children, c, "parent child list")
}

func (t *token) removeJoinResult(jr *negativeJoinResult) {
	for i, r := range t.joinResults {
		if r == jr {
			t.joinResults = append(t.joinResults[:i], t.joinResults[i+1:]...)
			return
		}
	}
	panic("rete: negative join result missing from owner token")
}

func (t *token) removeNccResult(r *token) {
	t.nccResults = mustRemoveToken(t.nccResults, r, "owner ncc results")
}

// deleteDescendents removes every token built on top of t, leaving t itself
// in place. This is the "effect-only" retraction used when a previously
// propagating token becomes blocked.
func (t *token) deleteDescendents() {
	for len(t.children) > 0 {
		t.children[0].deleteTokenAndDescendents()
	}
}

// deleteTokenAndDescendents removes t and everything built on it,
// children-first, then performs the cleanup specific to the owning node's
// kind. This is the single place node kinds are distinguished during
// deletion.
func (t *token) deleteTokenAndDescendents() {
	for len(t.children) > 0 {
		t.children[0].deleteTokenAndDescendents()
	}

	switch n := t.node.(type) {
	case *BetaMemory:
		n.removeItem(t)
		// When a beta memory empties, its join successors can stop
		// listening to their alpha memories until a token shows up
		// again. BetaMemory.leftActivate relinks them.
		if len(n.items) == 0 && n.unlink {
			for _, c := range n.children {
				if j, ok := c.(*JoinNode); ok {
					j.unlinkFromAlpha()
				}
			}
		}

	case *pnode:
		n.removeItem(t)

	case *NegativeNode:
		n.removeItem(t)
		for _, jr := range t.joinResults {
			jr.fact.removeNegativeJoinResult(jr)
		}
		t.joinResults = nil

	case *NccNode:
		n.removeItem(t)
		// Subnetwork result tokens are detached but not cascaded
		// further; nothing downstream was ever built on them.
		for _, r := range t.nccResults {
			if r.fact != nil {
				r.fact.removeToken(r)
			}
			if r.parent != nil {
				r.parent.removeChild(r)
			}
		}
		t.nccResults = nil

	case *NccPartnerNode:
		if t.owner != nil {
			t.owner.removeNccResult(t)
			if len(t.owner.nccResults) == 0 {
				// The last proof of the negated conjunction is
				// gone: the owner's match exists again.
				for _, c := range n.nccNode.children {
					c.leftActivate(t.owner, nil, t.owner.binding)
				}
			}
		} else {
			n.removeFromBuffer(t)
		}
	}

	if t.fact != nil {
		t.fact.removeToken(t)
	}
	if t.parent != nil {
		t.parent.removeChild(t)
	}
}

// mustRemoveToken removes t from list, panicking if it is absent. A miss
// means the triple-membership invariant has been violated, and continuing
// would corrupt future matches.
func mustRemoveToken(list []*token, t *token, what string) []*token {
	i := slices.Index(list, t)
	if i < 0 {
		panic(fmt.Sprintf("rete: token missing from %s", what))
	}
	return slices.Delete(list, i, i+1)
}
