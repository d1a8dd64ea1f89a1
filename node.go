package rete

// betaNode is implemented by every node on the beta side of the network:
// beta memories, join nodes, negative nodes, NCC and NCC partner nodes,
// bind nodes and production nodes. This is a closed set; the deletion
// cascade in token.go switches over it exhaustively.
type betaNode interface {
	// leftActivate delivers a new partial match. For memory-like nodes
	// t/f are the parent token and extending fact of the token to
	// create; for pass-through nodes (join, bind) they are forwarded.
	leftActivate(t *token, f *Fact, b Bindings)

	childNodes() []betaNode
	addChild(n betaNode)
	removeChild(n betaNode)
	parentNode() betaNode
}

// nodeCommon carries the parent/children plumbing shared by all beta-side
// nodes.
type nodeCommon struct {
	parent   betaNode
	children []betaNode
}

func (n *nodeCommon) childNodes() []betaNode { return n.children }
func (n *nodeCommon) parentNode() betaNode   { return n.parent }

func (n *nodeCommon) addChild(c betaNode) {
	n.children = append(n.children, c)
}

func (n *nodeCommon) removeChild(c betaNode) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
