package rete_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"

	"github.com/slott56/rete"
)

// nccProduction matches an x on y where x is NOT transitively left-of z
// through y. The negated conjunction requires both sub-conditions to hold
// at once before the match is blocked.
func nccProduction(t *testing.T, n *rete.Network) *rete.Production {
	t.Helper()
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "on", Value: y},
		rete.Ncc{
			rete.Cond{ID: y, Attr: "left-of", Value: z},
			rete.Cond{ID: z, Attr: "color", Value: "red"},
		},
	)
	if err != nil {
		t.Fatalf("adding production: %v", err)
	}
	return p
}

func TestNccBlocksOnlyWhenWholeConjunctionHolds(t *testing.T) {
	is := is.New(t)

	n := rete.NewNetwork()
	p := nccProduction(t, n)

	is.NoErr(n.AssertFact("B1", "on", "B2"))
	is.Equal(len(matches(t, n, p)), 1)

	// One sub-condition alone does not block.
	is.NoErr(n.AssertFact("B2", "left-of", "B3"))
	is.Equal(len(matches(t, n, p)), 1)

	// Completing the conjunction blocks.
	is.NoErr(n.AssertFact("B3", "color", "red"))
	is.Equal(len(matches(t, n, p)), 0)
}

func TestNccRetractionRestoresMatch(t *testing.T) {
	is := is.New(t)

	n := rete.NewNetwork()
	p := nccProduction(t, n)

	is.NoErr(n.AssertFact("B1", "on", "B2"))
	is.NoErr(n.AssertFact("B2", "left-of", "B3"))
	is.NoErr(n.AssertFact("B3", "color", "red"))
	is.Equal(len(matches(t, n, p)), 0)

	// Breaking the conjunction anywhere restores the match with the
	// original bindings.
	is.NoErr(n.RetractFact("B2", "left-of", "B3"))

	want := []rete.Bindings{{x: "B1", y: "B2"}}
	if diff := cmp.Diff(want, matches(t, n, p)); diff != "" {
		t.Errorf("match after breaking conjunction (-want +got):\n%s", diff)
	}

	// And re-completing it blocks again.
	is.NoErr(n.AssertFact("B2", "left-of", "B3"))
	is.Equal(len(matches(t, n, p)), 0)
}

func TestNccExistingFacts(t *testing.T) {
	// The subnetwork sees facts asserted before the production existed.
	is := is.New(t)

	n := rete.NewNetwork()
	is.NoErr(n.AssertFact("B1", "on", "B2"))
	is.NoErr(n.AssertFact("B2", "left-of", "B3"))
	is.NoErr(n.AssertFact("B3", "color", "red"))
	is.NoErr(n.AssertFact("B4", "on", "B5"))

	p := nccProduction(t, n)

	want := []rete.Bindings{{x: "B4", y: "B5"}}
	if diff := cmp.Diff(want, matches(t, n, p)); diff != "" {
		t.Errorf("ncc over pre-existing facts (-want +got):\n%s", diff)
	}
}

func TestNccOwnerRetraction(t *testing.T) {
	// Retracting the owning fact removes the match and releases the
	// subnetwork results without touching unrelated matches.
	is := is.New(t)

	n := rete.NewNetwork()
	p := nccProduction(t, n)

	is.NoErr(n.AssertFact("B1", "on", "B2"))
	is.NoErr(n.AssertFact("B4", "on", "B5"))
	is.Equal(len(matches(t, n, p)), 2)

	is.NoErr(n.RetractFact("B1", "on", "B2"))

	want := []rete.Bindings{{x: "B4", y: "B5"}}
	if diff := cmp.Diff(want, matches(t, n, p)); diff != "" {
		t.Errorf("after owner retraction (-want +got):\n%s", diff)
	}
}
