package rete

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// A Network is the matching engine: it owns the fact store, the alpha-memory
// index and the beta-side node graph, and is the sole mutation entry point.
// Assert and retract run their full activation or deletion cascade before
// returning; there is no queuing or batching.
//
// A single mutex guards every public operation. Finer-grained locking is
// deliberately absent: if callers need concurrency, the network as a whole
// is the unit of exclusion.
type Network struct {
	mu sync.Mutex

	wm          *workingMemory
	alphaIndex  map[alphaKey]*alphaMemory
	root        *BetaMemory
	productions map[string]*Production
	opts        networkOptions
}

type networkOptions struct {
	rightUnlinking bool
}

// NetworkOption configures a Network at construction.
type NetworkOption func(*networkOptions)

// WithoutRightUnlinking disables the optimization that detaches a join node
// from its alpha memory while the join's beta memory is empty. Matching
// results are identical either way; this knob exists for debugging and for
// measuring the optimization.
func WithoutRightUnlinking() NetworkOption {
	return func(o *networkOptions) { o.rightUnlinking = false }
}

func applyNetworkOptions(o *networkOptions, opts ...NetworkOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// NewNetwork initializes an empty network.
func NewNetwork(opts ...NetworkOption) *Network {
	n := &Network{
		wm:          newWorkingMemory(),
		alphaIndex:  make(map[alphaKey]*alphaMemory),
		productions: make(map[string]*Production),
		opts:        networkOptions{rightUnlinking: true},
	}
	applyNetworkOptions(&n.opts, opts...)

	// The root memory holds the synthetic token every chain starts from.
	n.root = &BetaMemory{unlink: false}
	n.root.items = []*token{{binding: Bindings{}}}
	return n
}

// AddProduction compiles the condition chain into the network, sharing
// nodes with existing productions where the chains coincide, and returns
// the handle for querying matches. Facts already asserted are matched
// immediately. The chain is validated up front; on error nothing is built.
func (n *Network) AddProduction(conds ...Condition) (*Production, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := validateConditions(conds); err != nil {
		return nil, fmt.Errorf("adding production: %w", err)
	}

	ctx := &compileContext{}
	bottom := n.buildChain(n.root, conds, ctx)

	p := &Production{ID: uuid.NewString(), net: n}
	pn := &pnode{prod: p}
	p.node = pn
	pn.parent = bottom
	bottom.addChild(pn)
	updateNewNodeWithMatchesFromAbove(pn)

	n.productions[p.ID] = p
	return p, nil
}

// RemoveProduction deletes the production's matches and every node of its
// chain not shared with another production.
func (n *Network) RemoveProduction(p *Production) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if p == nil {
		return ErrUnknownProduction
	}
	if _, ok := n.productions[p.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduction, p.ID)
	}
	delete(n.productions, p.ID)
	n.deleteNodeAndAnyUnusedAncestors(p.node)
	return nil
}

// Matches returns the production's current complete matches as
// caller-owned binding environments, in the order the matches formed.
func (n *Network) Matches(p *Production) ([]Bindings, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if p == nil {
		return nil, ErrUnknownProduction
	}
	if _, ok := n.productions[p.ID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduction, p.ID)
	}
	return p.node.matches(), nil
}

// AssertFact adds the identifier/attribute/value triple to working memory
// and runs the activation cascade. Asserting a fact equal to one already
// held is a no-op. Variables (and nil) are rejected in any field.
func (n *Network) AssertFact(identifier, attribute, value any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := validateTriple(identifier, attribute, value); err != nil {
		return err
	}
	f := &Fact{Identifier: identifier, Attribute: attribute, Value: value}
	if !n.wm.add(f) {
		return nil
	}
	for _, key := range alphaCandidates(f) {
		if a, ok := n.alphaIndex[key]; ok {
			a.activate(f)
		}
	}
	return nil
}

// RetractFact removes the triple from working memory and runs the deletion
// cascade: every token built on the fact is destroyed, and negative-node
// tokens it was blocking are released downstream. Retracting a fact that is
// not held is a no-op.
func (n *Network) RetractFact(identifier, attribute, value any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := validateTriple(identifier, attribute, value); err != nil {
		return err
	}
	f := n.wm.remove(factKey{identifier, attribute, value})
	if f == nil {
		return nil
	}

	for _, a := range f.amems {
		a.removeItem(f)
	}
	f.amems = nil

	for len(f.tokens) > 0 {
		f.tokens[0].deleteTokenAndDescendents()
	}

	// Tokens this fact was suppressing come back to life once their
	// last blocker is gone. The cascade above may already have consumed
	// some of these records, hence the snapshot now, not earlier.
	for _, jr := range slices.Clone(f.negativeJoinResults) {
		jr.owner.removeJoinResult(jr)
		if len(jr.owner.joinResults) == 0 {
			for _, c := range jr.owner.node.childNodes() {
				c.leftActivate(jr.owner, nil, jr.owner.binding)
			}
		}
	}
	f.negativeJoinResults = nil
	return nil
}

// A View is a read-only window onto the network's working memory for code
// running inside the activation cascade, where the network's lock is already
// held and the public Network methods would deadlock. Bind functions receive
// one through the NetParam parameter. A View is only valid for the duration
// of the call it was handed to.
type View struct {
	net *Network
}

// Facts returns a snapshot of working memory in assertion order.
func (v View) Facts() []*Fact {
	return slices.Clone(v.net.wm.all())
}

// FactsMatching returns the asserted facts satisfying the triple; nil
// fields match anything.
func (v View) FactsMatching(identifier, attribute, value any) []*Fact {
	return v.net.wm.matching(identifier, attribute, value)
}

// Resolve returns the asserted fact whose identifier equals value, if any.
func (v View) Resolve(value any) (*Fact, bool) {
	return v.net.wm.resolve(value)
}

// Resolve returns the asserted fact whose identifier equals value, if any.
// This is the one store lookup the matching network itself depends on (bind
// argument resolution); it is exported for symmetry with the other queries.
func (n *Network) Resolve(value any) (*Fact, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wm.resolve(value)
}

// Facts returns a snapshot of working memory in assertion order.
func (n *Network) Facts() []*Fact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.wm.all())
}

// FactsMatching returns the asserted facts satisfying the triple; nil
// fields match anything.
func (n *Network) FactsMatching(identifier, attribute, value any) []*Fact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wm.matching(identifier, attribute, value)
}

func validateTriple(identifier, attribute, value any) error {
	if err := validateFactField("identifier", identifier); err != nil {
		return err
	}
	if err := validateFactField("attribute", attribute); err != nil {
		return err
	}
	return validateFactField("value", value)
}

// String renders a summary of the network's current state.
func (n *Network) String() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	counts := n.countNodes()
	matches := 0
	for _, p := range n.productions {
		matches += len(p.node.items)
	}

	tw := table.NewWriter()
	tw.SetTitle("\nRETE NETWORK\n")
	tw.AppendHeader(table.Row{"", "Count"})
	rows := []struct {
		label string
		count int
	}{
		{"Facts", n.wm.size()},
		{"Alpha memories", len(n.alphaIndex)},
		{"Beta memories", counts.betaMemories},
		{"Join nodes", counts.joins},
		{"Negative nodes", counts.negatives},
		{"NCC nodes", counts.nccs},
		{"Bind nodes", counts.binds},
		{"Productions", len(n.productions)},
		{"Matches", matches},
	}
	for _, r := range rows {
		tw.AppendRow(table.Row{r.label, humanize.Comma(int64(r.count))})
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

type nodeCounts struct {
	betaMemories int
	joins        int
	negatives    int
	nccs         int
	binds        int
}

// countNodes walks the beta graph from the root. NCC subnetworks hang off
// shared parents, so they are reached like any other branch.
func (n *Network) countNodes() nodeCounts {
	var c nodeCounts
	seen := map[betaNode]bool{}
	var walk func(node betaNode)
	walk = func(node betaNode) {
		if seen[node] {
			return
		}
		seen[node] = true
		switch node.(type) {
		case *BetaMemory:
			c.betaMemories++
		case *JoinNode:
			c.joins++
		case *NegativeNode:
			c.negatives++
		case *NccNode:
			c.nccs++
		case *BindNode:
			c.binds++
		}
		for _, child := range node.childNodes() {
			walk(child)
		}
	}
	walk(n.root)
	c.betaMemories-- // the synthetic root is not a compiled memory
	return c
}
