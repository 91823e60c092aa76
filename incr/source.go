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

// SourceValue is an input supplied to the Database from outside. A SourceValue names its own
// slot: every write of a value with the same SourceKey overwrites the same slot, and the Key
// must stay stable for as long as the logical slot exists. SourceKeyFor is the usual way to
// implement SourceKey.
type SourceValue interface {
	Value

	// SourceKey returns the identity of the slot this value occupies.
	SourceKey() Key
}

// sourceNode is one revision of a source slot. Nodes are immutable; a write installs a fresh
// node, so a concurrent reader always observes a consistent value and stamp pair.
type sourceNode struct {
	// value is the input as last written.
	value SourceValue

	// updatedAt is the Epoch of the last write to the slot, regardless of whether the written
	// value equaled the one it replaced. Source writes never benefit from the equality cutoff;
	// only derived values do.
	updatedAt Epoch
}

// sourceTable holds every source slot ever written, keyed by Key. Slots are never removed.
type sourceTable struct {
	nodes util.SyncMap // Key -> *sourceNode
}

func (table *sourceTable) load(key Key) (*sourceNode, bool) {
	value, ok := table.nodes.Load(key)
	if !ok {
		return nil, false
	}
	return value.(*sourceNode), true
}

func (table *sourceTable) store(key Key, node *sourceNode) {
	table.nodes.Store(key, node)
}
