package rete

import (
	"fmt"
	"slices"
)

// compileContext carries per-AddProduction compilation state. Generated
// variable names come from here rather than from package state, so
// concurrent networks never interfere and a production's generated names
// are stable.
type compileContext struct {
	counter int
}

func (c *compileContext) genVariable() Variable {
	c.counter++
	return Variable(fmt.Sprintf("_g%d", c.counter))
}

// compilePattern turns a condition triple into a pattern, replacing nil
// (don't care) fields with fresh anonymous variables.
func (c *compileContext) compilePattern(id, attr, value any) pattern {
	field := func(v any) any {
		if v == nil {
			return c.genVariable()
		}
		return v
	}
	return pattern{field(id), field(attr), field(value)}
}

// buildChain compiles a condition chain into a node chain hanging off
// parent, sharing structure with previously compiled productions wherever
// the patterns coincide. It returns the bottom-most node.
func (n *Network) buildChain(parent betaNode, conds []Condition, ctx *compileContext) betaNode {
	current := parent
	for _, c := range conds {
		switch c := c.(type) {
		case Cond:
			mem, ok := current.(*BetaMemory)
			if !ok {
				mem = n.buildOrShareBetaMemory(current)
			}
			pat := ctx.compilePattern(c.ID, c.Attr, c.Value)
			current = n.buildOrShareJoinNode(mem, n.buildOrShareAlphaMemory(pat), pat)
		case Neg:
			pat := ctx.compilePattern(c.ID, c.Attr, c.Value)
			current = n.buildOrShareNegativeNode(current, n.buildOrShareAlphaMemory(pat), pat)
		case Ncc:
			current = n.buildOrShareNcc(current, c, ctx)
		case Bind:
			bn := &BindNode{spec: c, net: n}
			bn.parent = current
			current.addChild(bn)
			current = bn
		}
	}
	return current
}

func (n *Network) buildOrShareAlphaMemory(p pattern) *alphaMemory {
	key := alphaKeyFor(p)
	if a, ok := n.alphaIndex[key]; ok {
		return a
	}
	a := &alphaMemory{key: key}
	n.alphaIndex[key] = a
	for _, f := range n.wm.all() {
		if key.matches(f) {
			a.items = append(a.items, f)
			f.amems = append(f.amems, a)
		}
	}
	return a
}

func (n *Network) buildOrShareBetaMemory(parent betaNode) *BetaMemory {
	for _, c := range parent.childNodes() {
		if m, ok := c.(*BetaMemory); ok {
			return m
		}
	}
	m := &BetaMemory{unlink: n.opts.rightUnlinking}
	m.parent = parent
	parent.addChild(m)
	updateNewNodeWithMatchesFromAbove(m)
	return m
}

func (n *Network) buildOrShareJoinNode(mem *BetaMemory, amem *alphaMemory, pat pattern) *JoinNode {
	for _, c := range mem.children {
		if j, ok := c.(*JoinNode); ok && j.amem == amem && j.pat == pat {
			return j
		}
	}
	j := &JoinNode{mem: mem, amem: amem, pat: pat}
	j.parent = mem
	mem.addChild(j)
	amem.successors = append(amem.successors, j)
	amem.refs++
	return j
}

func (n *Network) buildOrShareNegativeNode(parent betaNode, amem *alphaMemory, pat pattern) *NegativeNode {
	for _, c := range parent.childNodes() {
		if neg, ok := c.(*NegativeNode); ok && neg.amem == amem && neg.pat == pat {
			return neg
		}
	}
	neg := &NegativeNode{amem: amem, pat: pat}
	neg.parent = parent
	parent.addChild(neg)
	amem.successors = append(amem.successors, neg)
	amem.refs++
	updateNewNodeWithMatchesFromAbove(neg)
	return neg
}

// buildOrShareNcc compiles the negated conjunction's private subnetwork
// first and links the NCC node in after it, so any activation reaches the
// subnetwork (and buffers its proofs in the partner) before the NCC node
// builds the owning token.
func (n *Network) buildOrShareNcc(parent betaNode, sub Ncc, ctx *compileContext) *NccNode {
	bottom := n.buildChain(parent, sub, ctx)
	for _, c := range parent.childNodes() {
		if ncc, ok := c.(*NccNode); ok && ncc.partner.parentNode() == bottom {
			return ncc
		}
	}

	ncc := &NccNode{}
	partner := &NccPartnerNode{nccNode: ncc, conditionCount: len(sub)}
	ncc.partner = partner
	ncc.parent = parent
	partner.parent = bottom
	parent.addChild(ncc)
	bottom.addChild(partner)

	// Owner tokens first, then the proofs that negate them.
	updateNewNodeWithMatchesFromAbove(ncc)
	updateNewNodeWithMatchesFromAbove(partner)
	return ncc
}

// updateNewNodeWithMatchesFromAbove brings a freshly created node up to
// date with the partial matches already flowing above it. For join parents
// the parent's child list is temporarily narrowed to the new node so
// re-derived matches reach only it.
func updateNewNodeWithMatchesFromAbove(node betaNode) {
	switch p := node.parentNode().(type) {
	case *BetaMemory:
		for _, tok := range slices.Clone(p.items) {
			node.leftActivate(tok, nil, tok.binding)
		}
	case *JoinNode:
		saved := p.children
		p.children = []betaNode{node}
		for _, f := range slices.Clone(p.amem.items) {
			p.rightActivate(f)
		}
		p.children = saved
	case *NegativeNode:
		for _, tok := range slices.Clone(p.items) {
			if len(tok.joinResults) == 0 {
				node.leftActivate(tok, nil, tok.binding)
			}
		}
	case *NccNode:
		for _, tok := range slices.Clone(p.items) {
			if len(tok.nccResults) == 0 {
				node.leftActivate(tok, nil, tok.binding)
			}
		}
	case *BindNode:
		saved := p.children
		p.children = []betaNode{node}
		updateNewNodeWithMatchesFromAbove(p)
		p.children = saved
	}
}

// deleteNodeAndAnyUnusedAncestors tears down a node, its stored tokens and
// every ancestor left without children, stopping at nodes still shared with
// other productions. Alpha memories are dropped once their last join-family
// subscriber goes away.
func (n *Network) deleteNodeAndAnyUnusedAncestors(node betaNode) {
	switch nd := node.(type) {
	case *NccNode:
		n.deleteNodeAndAnyUnusedAncestors(nd.partner)
		for len(nd.items) > 0 {
			nd.items[0].deleteTokenAndDescendents()
		}
	case *NccPartnerNode:
		for len(nd.buffer) > 0 {
			nd.buffer[0].deleteTokenAndDescendents()
		}
	case *BetaMemory:
		for len(nd.items) > 0 {
			nd.items[0].deleteTokenAndDescendents()
		}
	case *NegativeNode:
		for len(nd.items) > 0 {
			nd.items[0].deleteTokenAndDescendents()
		}
	case *pnode:
		for len(nd.items) > 0 {
			nd.items[0].deleteTokenAndDescendents()
		}
	}

	var amem *alphaMemory
	switch nd := node.(type) {
	case *JoinNode:
		amem = nd.amem
	case *NegativeNode:
		amem = nd.amem
	}
	if amem != nil {
		amem.removeSuccessor(node.(rightActivator))
		amem.refs--
		if amem.refs == 0 {
			n.deleteAlphaMemory(amem)
		}
	}

	parent := node.parentNode()
	if parent == nil {
		return
	}
	parent.removeChild(node)
	if parent != betaNode(n.root) && len(parent.childNodes()) == 0 {
		n.deleteNodeAndAnyUnusedAncestors(parent)
	}
}

func (n *Network) deleteAlphaMemory(a *alphaMemory) {
	delete(n.alphaIndex, a.key)
	for _, f := range a.items {
		for i, x := range f.amems {
			if x == a {
				f.amems = append(f.amems[:i], f.amems[i+1:]...)
				break
			}
		}
	}
	a.items = nil
}
