// Package rete provides an incremental pattern-matching engine implementing
// the RETE algorithm. A network of memory and test nodes maintains, under a
// continuous stream of fact assertions and retractions, the set of all
// variable-binding combinations satisfying a set of multi-condition
// productions, without re-scanning working memory on each change.
//
// Typical use is as follows:
//
//  1. Create a Network
//  2. Add one or more productions, each a chain of conditions
//  3. Assert and retract facts as the world changes
//  4. Read each production's current matches (or receive them via OnMatch)
//
// Facts are identifier/attribute/value triples of comparable Go values.
// Conditions relate fact fields through shared variables; a production's
// matches are the binding environments under which every condition holds
// simultaneously. Negated conditions (Neg), negated conjunctions (Ncc) and
// computed bindings (Bind) compose freely after the first positive
// condition.
//
// # Incrementality
//
// Asserting a fact extends only the partial matches the fact can
// participate in; retracting it destroys exactly the matches built on it
// and revives matches it was blocking. The match set after any sequence of
// operations is identical to what matching from scratch would produce, and
// is independent of assertion order.
//
// # Concurrency
//
// A network is a single exclusively-owned resource. Every public operation
// takes the network's one lock and runs its full cascade before returning;
// there is no internal queuing and no finer-grained locking. Callbacks and
// bind functions run inside the cascade and must not call the network's
// public methods; bind functions that need to consult working memory do so
// through the read-only View supplied by the NetParam parameter.
package rete
