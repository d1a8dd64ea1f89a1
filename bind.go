package rete

// A BindFunc computes a derived value from resolved arguments. Returning an
// error (or a value conflicting with an existing binding of the target
// variable) is an ordinary non-match, not a fault; propagation simply
// stops.
type BindFunc func(args map[Variable]any) (any, error)

// NetParam is the reserved bind parameter name that resolves to a read-only
// View of the network rather than to a binding. Bind functions run inside
// the activation cascade with the network's lock held, so they must consult
// working memory through the View; calling a public Network method from a
// bind function deadlocks.
const NetParam Variable = "net"

// A BindNode computes a value from the current bindings and injects it
// under a target variable instead of testing a fact. If the target variable
// is already bound, the node acts as a consistency re-check: a differing
// result blocks propagation silently.
//
// Arguments are resolved per declared parameter: NetParam yields a View of
// the network; a parameter whose bound value is a tracked fact identifier
// yields that *Fact; anything else passes the raw bound value.
type BindNode struct {
	nodeCommon
	spec Bind
	net  *Network
}

// leftActivate forwards the incoming token/fact pair unchanged; only the
// binding environment is (possibly) extended. Bind nodes create no tokens.
func (n *BindNode) leftActivate(t *token, f *Fact, b Bindings) {
	args := make(map[Variable]any, len(n.spec.Params))
	for _, p := range n.spec.Params {
		if p == NetParam {
			args[p] = View{net: n.net}
			continue
		}
		v, ok := b.lookup(p)
		if !ok {
			// Validation guarantees parameters are bound; an
			// unbound one here is a compile bug, not a user error.
			panic("rete: unbound bind parameter " + p.String())
		}
		if fact, found := n.net.wm.resolve(v); found {
			args[p] = fact
		} else {
			args[p] = v
		}
	}

	result, err := n.spec.Fn(args)
	if err != nil {
		return
	}

	if existing, bound := b.lookup(n.spec.Var); bound {
		if existing != result {
			return
		}
		for _, c := range n.children {
			c.leftActivate(t, f, b)
		}
		return
	}

	nb := b.extend(n.spec.Var, result)
	for _, c := range n.children {
		c.leftActivate(t, f, nb)
	}
}
