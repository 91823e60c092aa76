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

import "github.com/botobag/selene/internal/util"

// dependency is one edge recorded during a recomputation: the node that was consulted and the
// Epoch stamp observed on it at the time.
type dependency struct {
	node nodeID
	at   Epoch
}

// derivedNode is one memoized result together with the bookkeeping the engine needs to decide
// staleness. Nodes are immutable once published; verification and recomputation install fresh
// nodes in the table.
type derivedNode struct {
	// value is the most recent distinct result.
	value Value

	// fn recomputes the value. It is retained so a dependant can re-resolve this node during
	// verification without the original caller present.
	fn MemoFn

	// dependencies lists every node the last run of fn consulted, in consultation order.
	dependencies []dependency

	// updatedAt is the Epoch at which value last changed.
	updatedAt Epoch

	// verifiedAt is the Epoch at which the engine last confirmed value to be current.
	verifiedAt Epoch
}

// withVerifiedAt returns a copy of the node re-stamped as verified at epoch.
func (node *derivedNode) withVerifiedAt(epoch Epoch) *derivedNode {
	copied := *node
	copied.verifiedAt = epoch
	return &copied
}

// derivedTable holds every derived node ever computed, keyed by DerivedNodeID. Nodes are never
// removed; a recomputation replaces the node wholesale.
type derivedTable struct {
	nodes util.SyncMap // DerivedNodeID -> *derivedNode
}

func (table *derivedTable) load(id DerivedNodeID) (*derivedNode, bool) {
	value, ok := table.nodes.Load(id)
	if !ok {
		return nil, false
	}
	return value.(*derivedNode), true
}

func (table *derivedTable) store(id DerivedNodeID, node *derivedNode) {
	table.nodes.Store(id, node)
}
