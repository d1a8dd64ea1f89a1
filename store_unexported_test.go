package rete

import (
	"testing"

	"github.com/matryer/is"
)

func TestWorkingMemoryAddRemove(t *testing.T) {
	is := is.New(t)

	wm := newWorkingMemory()
	f1 := &Fact{Identifier: "B1", Attribute: "on", Value: "B2"}
	is.True(wm.add(f1))
	is.Equal(wm.size(), 1)

	// Structural duplicates are rejected even as distinct pointers.
	dup := &Fact{Identifier: "B1", Attribute: "on", Value: "B2"}
	is.True(!wm.add(dup))
	is.Equal(wm.size(), 1)

	got := wm.remove(factKey{"B1", "on", "B2"})
	is.Equal(got, f1)
	is.Equal(wm.size(), 0)

	is.Equal(wm.remove(factKey{"B1", "on", "B2"}), nil)
}

func TestWorkingMemoryResolveOldest(t *testing.T) {
	is := is.New(t)

	wm := newWorkingMemory()
	f1 := &Fact{Identifier: "B1", Attribute: "color", Value: "red"}
	f2 := &Fact{Identifier: "B1", Attribute: "on", Value: "B2"}
	wm.add(f1)
	wm.add(f2)

	got, ok := wm.resolve("B1")
	is.True(ok)
	is.Equal(got, f1)

	// Removing the oldest promotes the next.
	wm.remove(f1.key())
	got, ok = wm.resolve("B1")
	is.True(ok)
	is.Equal(got, f2)

	wm.remove(f2.key())
	_, ok = wm.resolve("B1")
	is.True(!ok)
}

func TestWorkingMemoryMatching(t *testing.T) {
	is := is.New(t)

	wm := newWorkingMemory()
	wm.add(&Fact{Identifier: "B1", Attribute: "on", Value: "B2"})
	wm.add(&Fact{Identifier: "B1", Attribute: "color", Value: "red"})
	wm.add(&Fact{Identifier: "B2", Attribute: "color", Value: "red"})

	is.Equal(len(wm.matching(nil, nil, nil)), 3)
	is.Equal(len(wm.matching("B1", nil, nil)), 2)
	is.Equal(len(wm.matching(nil, "color", nil)), 2)
	is.Equal(len(wm.matching(nil, "color", "red")), 2)
	is.Equal(len(wm.matching("B2", "color", "red")), 1)
	is.Equal(len(wm.matching("B3", nil, nil)), 0)
}

func TestWorkingMemoryOrder(t *testing.T) {
	is := is.New(t)

	wm := newWorkingMemory()
	f1 := &Fact{Identifier: "B1", Attribute: "a", Value: 1}
	f2 := &Fact{Identifier: "B2", Attribute: "a", Value: 2}
	f3 := &Fact{Identifier: "B3", Attribute: "a", Value: 3}
	wm.add(f1)
	wm.add(f2)
	wm.add(f3)

	all := wm.all()
	is.Equal(len(all), 3)
	is.Equal(all[0], f1)
	is.Equal(all[2], f3)

	wm.remove(f2.key())
	all = wm.all()
	is.Equal(len(all), 2)
	is.Equal(all[0], f1)
	is.Equal(all[1], f3)
}
