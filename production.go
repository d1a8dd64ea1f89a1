package rete

import (
	"fmt"
	"slices"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// A Production is the handle returned by Network.AddProduction. Its match
// set is read on demand through Network.Matches; removal via
// Network.RemoveProduction tears down every node not shared with another
// production.
//
// Firing policy: matches are recorded, not fired. Callers pull the current
// match set whenever they choose. As a push-style supplement, OnMatch (if
// set) is invoked with the bindings of each match at the moment it forms;
// it is not invoked when a match is retracted. Set OnMatch before asserting
// facts to observe every activation. OnMatch runs inside the activation
// cascade and must not call back into the network.
type Production struct {
	// ID uniquely identifies the production within its network.
	ID string

	// Name is an optional label used in rendered output.
	Name string

	// OnMatch, if non-nil, is called with the bindings of each newly
	// completed match.
	OnMatch func(Bindings)

	node *pnode
	net  *Network
}

// pnode is the terminal memory for one production: it stores the tokens
// representing complete matches.
type pnode struct {
	nodeCommon
	prod  *Production
	items []*token
}

func (p *pnode) leftActivate(t *token, f *Fact, b Bindings) {
	tok := newToken(p, t, f, b)
	p.items = append(p.items, tok)
	if p.prod.OnMatch != nil {
		p.prod.OnMatch(b.public())
	}
}

func (p *pnode) removeItem(t *token) {
	i := slices.Index(p.items, t)
	if i < 0 {
		panic("rete: token missing from production node")
	}
	p.items = slices.Delete(p.items, i, i+1)
}

// matches returns the current match set as caller-owned binding copies.
func (p *pnode) matches() []Bindings {
	out := make([]Bindings, 0, len(p.items))
	for _, t := range p.items {
		out = append(out, t.binding.public())
	}
	return out
}

// String renders the current match set, one row per match and one column
// per variable. It takes the network's lock, so it must not be called from
// inside a callback or bind function.
func (p *Production) String() string {
	name := p.Name
	if name == "" {
		name = p.ID
	}

	p.net.mu.Lock()
	ms := p.node.matches()
	p.net.mu.Unlock()
	vars := map[Variable]bool{}
	for _, m := range ms {
		for v := range m {
			vars[v] = true
		}
	}
	cols := make([]Variable, 0, len(vars))
	for v := range vars {
		cols = append(cols, v)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })

	tw := table.NewWriter()
	tw.SetTitle("\nPRODUCTION %s\n", name)
	header := table.Row{"#"}
	for _, v := range cols {
		header = append(header, v.String())
	}
	tw.AppendHeader(header)

	for i, m := range ms {
		row := table.Row{fmt.Sprintf("%d", i+1)}
		for _, v := range cols {
			if val, ok := m[v]; ok {
				row = append(row, fmt.Sprintf("%v", val))
			} else {
				row = append(row, "")
			}
		}
		tw.AppendRow(row)
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
