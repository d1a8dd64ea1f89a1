package rete_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"

	"github.com/slott56/rete"
)

func TestNegation(t *testing.T) {
	is := is.New(t)

	n := rete.NewNetwork()
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "color", Value: "red"},
		rete.Neg{ID: x, Attr: "blocked-by", Value: y},
	)
	is.NoErr(err)

	is.NoErr(n.AssertFact("B1", "color", "red"))
	is.Equal(len(matches(t, n, p)), 1)

	// A blocker removes the match; retracting the blocker restores it.
	is.NoErr(n.AssertFact("B1", "blocked-by", "B9"))
	is.Equal(len(matches(t, n, p)), 0)

	is.NoErr(n.RetractFact("B1", "blocked-by", "B9"))

	want := []rete.Bindings{{x: "B1"}}
	if diff := cmp.Diff(want, matches(t, n, p)); diff != "" {
		t.Errorf("match not restored after blocker retraction (-want +got):\n%s", diff)
	}
}

func TestNegationMultipleBlockers(t *testing.T) {
	is := is.New(t)

	n := rete.NewNetwork()
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "color", Value: "red"},
		rete.Neg{ID: x, Attr: "blocked-by", Value: y},
	)
	is.NoErr(err)

	is.NoErr(n.AssertFact("B1", "color", "red"))
	is.NoErr(n.AssertFact("B1", "blocked-by", "B8"))
	is.NoErr(n.AssertFact("B1", "blocked-by", "B9"))
	is.Equal(len(matches(t, n, p)), 0)

	// All blockers must go before the match reappears.
	is.NoErr(n.RetractFact("B1", "blocked-by", "B8"))
	is.Equal(len(matches(t, n, p)), 0)

	is.NoErr(n.RetractFact("B1", "blocked-by", "B9"))
	is.Equal(len(matches(t, n, p)), 1)
}

func TestNegationBlockerFirst(t *testing.T) {
	// The blocker exists before the positive fact arrives.
	is := is.New(t)

	n := rete.NewNetwork()
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "color", Value: "red"},
		rete.Neg{ID: x, Attr: "blocked-by", Value: y},
	)
	is.NoErr(err)

	is.NoErr(n.AssertFact("B1", "blocked-by", "B9"))
	is.NoErr(n.AssertFact("B1", "color", "red"))
	is.Equal(len(matches(t, n, p)), 0)

	is.NoErr(n.RetractFact("B1", "blocked-by", "B9"))
	is.Equal(len(matches(t, n, p)), 1)
}

func TestNegationBoundVariable(t *testing.T) {
	// The negated pattern reuses a variable bound earlier, so only
	// blockers naming that exact value count.
	is := is.New(t)

	n := rete.NewNetwork()
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "on", Value: y},
		rete.Neg{ID: y, Attr: "color", Value: "red"},
	)
	is.NoErr(err)

	is.NoErr(n.AssertFact("B1", "on", "B2"))
	is.NoErr(n.AssertFact("B3", "color", "red")) // unrelated block
	is.Equal(len(matches(t, n, p)), 1)

	is.NoErr(n.AssertFact("B2", "color", "red"))
	is.Equal(len(matches(t, n, p)), 0)
}

func TestPositiveAfterNegative(t *testing.T) {
	is := is.New(t)

	n := rete.NewNetwork()
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "color", Value: "red"},
		rete.Neg{ID: x, Attr: "blocked-by", Value: y},
		rete.Cond{ID: x, Attr: "on", Value: z},
	)
	is.NoErr(err)

	is.NoErr(n.AssertFact("B1", "color", "red"))
	is.NoErr(n.AssertFact("B1", "on", "B2"))

	want := []rete.Bindings{{x: "B1", z: "B2"}}
	if diff := cmp.Diff(want, matches(t, n, p)); diff != "" {
		t.Errorf("join below negation (-want +got):\n%s", diff)
	}

	is.NoErr(n.AssertFact("B1", "blocked-by", "B9"))
	is.Equal(len(matches(t, n, p)), 0)

	is.NoErr(n.RetractFact("B1", "blocked-by", "B9"))
	if diff := cmp.Diff(want, matches(t, n, p)); diff != "" {
		t.Errorf("join below negation after unblock (-want +got):\n%s", diff)
	}
}
