package rete

import "slices"

// wildcard marks an alpha-index position that carries no constant test.
type wildcard struct{}

// alphaKey identifies one alpha memory by its constant tests: each field is
// either a constant value or wildcard{}.
type alphaKey struct {
	identifier any
	attribute  any
	value      any
}

// alphaKeyFor derives the constant-test key for a compiled pattern.
// Variable positions test nothing.
func alphaKeyFor(p pattern) alphaKey {
	field := func(v any) any {
		if _, ok := v.(Variable); ok {
			return wildcard{}
		}
		return v
	}
	return alphaKey{field(p.identifier), field(p.attribute), field(p.value)}
}

// matches reports whether a fact satisfies the key's constant tests.
func (k alphaKey) matches(f *Fact) bool {
	test := func(kf, ff any) bool {
		if _, ok := kf.(wildcard); ok {
			return true
		}
		return kf == ff
	}
	return test(k.identifier, f.Identifier) &&
		test(k.attribute, f.Attribute) &&
		test(k.value, f.Value)
}

// alphaCandidates lists every key an asserted fact could be indexed under:
// the eight combinations of constant vs wildcard over the three fields.
// Alpha routing is a hash lookup per combination rather than a scan over
// all conditions.
func alphaCandidates(f *Fact) [8]alphaKey {
	var keys [8]alphaKey
	w := wildcard{}
	fields := [3]any{f.Identifier, f.Attribute, f.Value}
	for mask := 0; mask < 8; mask++ {
		k := [3]any{w, w, w}
		for bit := 0; bit < 3; bit++ {
			if mask&(1<<bit) != 0 {
				k[bit] = fields[bit]
			}
		}
		keys[mask] = alphaKey{k[0], k[1], k[2]}
	}
	return keys
}

// rightActivator is the alpha-side face of join-family nodes.
type rightActivator interface {
	rightActivate(f *Fact)
}

// An alphaMemory holds the facts currently satisfying one condition's
// constant tests and feeds them to its subscribed join-family successors.
type alphaMemory struct {
	key        alphaKey
	items      []*Fact
	successors []rightActivator

	// refs counts join-family nodes logically attached, including ones
	// temporarily unlinked from successors. The memory is torn down when
	// it reaches zero.
	refs int
}

// activate stores the fact and right-activates every successor with it.
// Successors are snapshotted first: a retraction cascade triggered further
// down may unlink successors mid-flight.
func (a *alphaMemory) activate(f *Fact) {
	a.items = append(a.items, f)
	f.amems = append(f.amems, a)
	for _, s := range slices.Clone(a.successors) {
		s.rightActivate(f)
	}
}

func (a *alphaMemory) removeItem(f *Fact) {
	i := slices.Index(a.items, f)
	if i < 0 {
		panic("rete: fact missing from alpha memory")
	}
	a.items = slices.Delete(a.items, i, i+1)
}

// removeSuccessor is tolerant of absent successors: unlinking is an
// optimization and may race with node teardown within a single cascade.
func (a *alphaMemory) removeSuccessor(s rightActivator) {
	for i, x := range a.successors {
		if x == s {
			a.successors = append(a.successors[:i], a.successors[i+1:]...)
			return
		}
	}
}
