package rete

import "slices"

// An NccNode negates an entire sub-chain of conditions. A private
// subnetwork built from the negated conditions hangs off the same parent as
// the NCC node and terminates in the partner node; every match the
// subnetwork produces is a proof that the conjunction holds, recorded
// against the NCC token it belongs to. A token propagates only while it has
// no recorded proofs.
//
// The subnetwork is linked into the parent's child list ahead of the NCC
// node, so on any activation the partner has already buffered the sub-match
// results by the time the NCC node builds its token.
type NccNode struct {
	nodeCommon
	partner *NccPartnerNode
	items   []*token
}

func (n *NccNode) leftActivate(t *token, f *Fact, b Bindings) {
	tok := newToken(n, t, f, b)
	n.items = append(n.items, tok)

	for len(n.partner.buffer) > 0 {
		r := n.partner.buffer[len(n.partner.buffer)-1]
		n.partner.buffer = n.partner.buffer[:len(n.partner.buffer)-1]
		tok.nccResults = append(tok.nccResults, r)
		r.owner = tok
	}
	if len(tok.nccResults) == 0 {
		for _, c := range n.children {
			c.leftActivate(tok, nil, b)
		}
	}
}

func (n *NccNode) removeItem(t *token) {
	i := slices.Index(n.items, t)
	if i < 0 {
		panic("rete: token missing from ncc node")
	}
	n.items = slices.Delete(n.items, i, i+1)
}

// An NccPartnerNode sits at the bottom of an NCC subnetwork. Each sub-match
// arriving here is matched to its owning NCC token by walking up the
// token/fact chain past the subnetwork's own levels; the levels above that
// point are shared with the owner.
type NccPartnerNode struct {
	nodeCommon
	nccNode *NccNode

	// conditionCount is the number of token-building steps in the
	// subnetwork, i.e. how many ancestry levels separate a sub-match
	// from its owner's creation point.
	conditionCount int

	// buffer holds sub-match results produced before their owner token
	// exists; the NCC node drains it when the owner arrives.
	buffer []*token
}

func (p *NccPartnerNode) leftActivate(t *token, f *Fact, b Bindings) {
	result := newToken(p, t, f, b)

	ownerT, ownerF := t, f
	for i := 0; i < p.conditionCount; i++ {
		ownerF = ownerT.fact
		ownerT = ownerT.parent
	}
	for _, owner := range p.nccNode.items {
		if owner.parent == ownerT && owner.fact == ownerF {
			owner.nccResults = append(owner.nccResults, result)
			result.owner = owner
			// First proof: the owner's match is negated away.
			// Effect-only, the owner token itself survives.
			owner.deleteDescendents()
			return
		}
	}
	p.buffer = append(p.buffer, result)
}

func (p *NccPartnerNode) removeFromBuffer(t *token) {
	for i, x := range p.buffer {
		if x == t {
			p.buffer = append(p.buffer[:i], p.buffer[i+1:]...)
			return
		}
	}
}
