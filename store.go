package rete

import "slices"

// workingMemory is the network's fact store: every currently asserted fact,
// deduplicated by structural equality and indexed by identifier for the
// single lookup the matching network needs (resolving a bound value to a
// fact). It is owned by the network and accessed only under its lock.
type workingMemory struct {
	byKey        map[factKey]*Fact
	byIdentifier map[any][]*Fact
	order        []*Fact
}

func newWorkingMemory() *workingMemory {
	return &workingMemory{
		byKey:        make(map[factKey]*Fact),
		byIdentifier: make(map[any][]*Fact),
	}
}

// add registers the fact, reporting false if an equal fact is already held.
func (wm *workingMemory) add(f *Fact) bool {
	k := f.key()
	if _, ok := wm.byKey[k]; ok {
		return false
	}
	wm.byKey[k] = f
	wm.byIdentifier[f.Identifier] = append(wm.byIdentifier[f.Identifier], f)
	wm.order = append(wm.order, f)
	return true
}

// remove drops the fact with the given identity, returning it, or nil if no
// such fact is held.
func (wm *workingMemory) remove(k factKey) *Fact {
	f, ok := wm.byKey[k]
	if !ok {
		return nil
	}
	delete(wm.byKey, k)

	ids := wm.byIdentifier[f.Identifier]
	if i := slices.Index(ids, f); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	}
	if len(ids) == 0 {
		delete(wm.byIdentifier, f.Identifier)
	} else {
		wm.byIdentifier[f.Identifier] = ids
	}

	if i := slices.Index(wm.order, f); i >= 0 {
		wm.order = slices.Delete(wm.order, i, i+1)
	}
	return f
}

// resolve returns a fact whose identifier equals value, if any is asserted.
// With several such facts, the oldest wins.
func (wm *workingMemory) resolve(value any) (*Fact, bool) {
	ids := wm.byIdentifier[value]
	if len(ids) == 0 {
		return nil, false
	}
	return ids[0], true
}

// all returns the held facts in assertion order. The slice is shared; treat
// it as read-only.
func (wm *workingMemory) all() []*Fact {
	return wm.order
}

// matching returns the facts satisfying the given triple, where nil fields
// match anything.
func (wm *workingMemory) matching(identifier, attribute, value any) []*Fact {
	test := func(want, got any) bool {
		return want == nil || want == got
	}
	var out []*Fact
	for _, f := range wm.order {
		if test(identifier, f.Identifier) && test(attribute, f.Attribute) && test(value, f.Value) {
			out = append(out, f)
		}
	}
	return out
}

func (wm *workingMemory) size() int { return len(wm.byKey) }
