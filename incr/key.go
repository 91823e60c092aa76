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

// Key identifies a slot in a Database: either a source slot, or the function half of a derived
// node. Keys derived from the same identity input are stable across processes, which is what
// lets separate runs of a build agree on what they have in common.
type Key uint64

// ParamID names an interned parameter value in a Database's parameter arena. Equal values
// intern to the same ParamID.
type ParamID uint64

// DerivedNodeID identifies one memoized computation: the Key of the registered function paired
// with the ParamID of the argument it was invoked with. Calling the same function with a
// different argument is a different node.
type DerivedNodeID struct {
	Key   Key
	Param ParamID
}

// SourceKeyFor derives the Key of a source slot from a type-level prefix and the value that
// identifies the slot within that type, commonly a file path. The prefix keeps slots of
// different source types apart even when their identifying values collide.
func SourceKeyFor(prefix string, id interface{}) Key {
	return deriveKey(prefix, id)
}

// nodeKind discriminates the two kinds of nodes a dependency edge can point at.
type nodeKind uint8

const (
	nodeKindSource nodeKind = iota
	nodeKindDerived
)

// nodeID names either a source slot or a derived node in a dependency record.
type nodeID struct {
	kind    nodeKind
	source  Key
	derived DerivedNodeID
}

func sourceNodeID(key Key) nodeID {
	return nodeID{kind: nodeKindSource, source: key}
}

func derivedNodeRef(id DerivedNodeID) nodeID {
	return nodeID{kind: nodeKindDerived, derived: id}
}
