/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package incr

import "fmt"

// DidRecalculate reports what a resolve did to obtain its value.
type DidRecalculate uint8

const (
	// NotRecalculated means the cached value was reused: the node was already verified at the
	// current epoch, its dependencies turned out unchanged, or the function reran but produced
	// a value equal to the cached one.
	NotRecalculated DidRecalculate = iota

	// Recalculated means the function ran and its result replaced the cached value.
	Recalculated
)

// String implements fmt.Stringer.
func (did DidRecalculate) String() string {
	if did == Recalculated {
		return "recalculated"
	}
	return "not recalculated"
}

// frame tracks one in-flight derived resolution. Frames chain through nested resolves on the
// same handle; the chain doubles as the cycle check and as the recorder for the dependencies
// of the node being computed.
type frame struct {
	node   DerivedNodeID
	parent *frame
	deps   []dependency
}

func (f *frame) record(dep dependency) {
	f.deps = append(f.deps, dep)
}

// inFlight reports whether id is already being resolved somewhere up the chain. It tolerates a
// nil receiver so the root handle can ask without a frame.
func (f *frame) inFlight(id DerivedNodeID) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.node == id {
			return true
		}
	}
	return false
}

// Resolve returns the value of the derived node identified by id, running fn only when the
// cached result can no longer be trusted:
//
//  1. A node already verified at the current epoch is returned as is.
//  2. Otherwise its recorded dependencies are checked in consultation order. A source
//     dependency is stale when the slot's update stamp differs from the recorded one; a
//     derived dependency is re-resolved first and is stale when its update stamp afterwards
//     exceeds the recorded one.
//  3. A node with no stale dependency is re-stamped as verified without running fn.
//  4. Otherwise fn runs, with its reads recorded as the node's new dependencies. A result
//     equal to the cached value keeps the old value and update stamp, so dependants stay
//     unaffected; an unequal result is published at the current epoch.
//
// When called from inside another memoized function, the resolved node is additionally
// recorded as a dependency of that caller.
//
// An error from fn propagates unchanged and leaves the node's previous entry untouched. A
// computation that transitively resolves its own id fails with ErrKindCycle.
func (db *Database) Resolve(id DerivedNodeID, fn MemoFn) (Value, DidRecalculate, error) {
	if fn == nil {
		panic("incr: Resolve called with a nil function")
	}
	node, did, err := db.state.resolve(db.frame, id, fn)
	if err != nil {
		return nil, NotRecalculated, err
	}
	if db.frame != nil {
		db.frame.record(dependency{node: derivedNodeRef(id), at: node.updatedAt})
	}
	return node.value, did, nil
}

// resolve is the verify-or-recompute engine behind Resolve. caller is the chain of resolutions
// in flight on the invoking handle; it supplies cycle detection and nothing else. Recording
// the resolved node into the caller is the wrapper's business.
func (s *state) resolve(caller *frame, id DerivedNodeID, fn MemoFn) (*derivedNode, DidRecalculate, error) {
	if caller.inFlight(id) {
		return nil, NotRecalculated, NewError(
			fmt.Sprintf("computation %#x(param %#x) transitively depends on itself",
				uint64(id.Key), uint64(id.Param)),
			Op("incr.Resolve"), ErrKindCycle)
	}

	current := s.clock.now()
	cached, ok := s.derived.load(id)
	if !ok {
		return s.recompute(caller, id, fn, nil)
	}
	if cached.verifiedAt == current {
		return cached, NotRecalculated, nil
	}
	stale, err := s.anyDependencyStale(caller, id, cached)
	if err != nil {
		return nil, NotRecalculated, err
	}
	if !stale {
		verified := cached.withVerifiedAt(current)
		s.derived.store(id, verified)
		return verified, NotRecalculated, nil
	}
	return s.recompute(caller, id, fn, cached)
}

// anyDependencyStale checks the recorded dependencies of a node in the order they were
// consulted, short-circuiting at the first stale one. A derived dependency is brought up to
// date before its stamps are compared, so a clean verdict means every transitive input has
// been verified against the current epoch.
func (s *state) anyDependencyStale(caller *frame, id DerivedNodeID, node *derivedNode) (bool, error) {
	// The node under verification joins the in-flight chain so a cycle through it is caught
	// even though its function is not running.
	guard := &frame{node: id, parent: caller}
	for _, dep := range node.dependencies {
		switch dep.node.kind {
		case nodeKindSource:
			source, ok := s.sources.load(dep.node.source)
			if !ok || source.updatedAt != dep.at {
				return true, nil
			}
		case nodeKindDerived:
			cached, ok := s.derived.load(dep.node.derived)
			if !ok {
				return true, nil
			}
			fresh, _, err := s.resolve(guard, dep.node.derived, cached.fn)
			if err != nil {
				return false, err
			}
			if fresh.updatedAt > dep.at {
				return true, nil
			}
		}
	}
	return false, nil
}

// recompute runs fn inside a fresh frame and publishes the outcome: the dependency list and
// verification stamp are always replaced, the value and its update stamp only when the new
// result is distinct from prev.
func (s *state) recompute(caller *frame, id DerivedNodeID, fn MemoFn, prev *derivedNode) (*derivedNode, DidRecalculate, error) {
	exec := &frame{node: id, parent: caller}
	result, err := fn(&Database{state: s, frame: exec}, id.Param)
	if err != nil {
		return nil, NotRecalculated, err
	}
	if result == nil {
		panic(fmt.Sprintf("incr: the memoized function for %#x(param %#x) returned a nil "+
			"Value with a nil error", uint64(id.Key), uint64(id.Param)))
	}

	now := s.clock.now()
	node := &derivedNode{
		value:        result,
		fn:           fn,
		dependencies: exec.deps,
		updatedAt:    now,
		verifiedAt:   now,
	}
	did := Recalculated
	if prev != nil && prev.value.Equal(result) {
		node.value = prev.value
		node.updatedAt = prev.updatedAt
		did = NotRecalculated
	}
	s.derived.store(id, node)
	return node, did, nil
}
