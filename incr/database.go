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

// Package incr implements the incremental computation database the selene compiler is built
// on. A Database stores externally written source values and memoizes derived computations
// over them, tracking which nodes each computation consulted. After a source changes, a
// resolve revalidates cached results by walking those recorded dependencies and reruns only
// the computations whose inputs actually changed; a rerun whose result compares equal to the
// cached value stops the change from propagating any further.
//
// The database itself knows nothing about GraphQL or files. Everything it stores is a Value,
// compared by Equal and hashed for identity; the meaning lives in the packages that write
// sources and register memos.
package incr

import (
	"fmt"
	"reflect"
)

// Database is an incremental computation store. The zero value is not usable; create one with
// NewDatabase.
//
// A Database is safe for concurrent use. Concurrent resolves of distinct nodes proceed
// independently; concurrent resolves of the same node may each run the computation, with the
// last finisher's bookkeeping winning. Values must be treated as immutable once handed to the
// database.
type Database struct {
	state *state

	// frame is non-nil exactly on the handle passed to a memoized function while it runs.
	// Reads and resolves through such a handle are recorded as dependencies of that
	// computation.
	frame *frame
}

// state is the shared half of a Database: every handle derived from the same NewDatabase call
// points at the same state.
type state struct {
	clock   epochClock
	params  paramArena
	sources sourceTable
	derived derivedTable
}

// NewDatabase returns an empty Database with its clock at zero.
func NewDatabase() *Database {
	return &Database{state: &state{}}
}

// Epoch returns the current value of the database's logical clock.
func (db *Database) Epoch() Epoch {
	return db.state.clock.now()
}

// Intern stores value in the parameter arena and returns its ParamID. Equal values intern to
// the same ID, and for values with a stable canonical encoding the ID is stable across
// processes. Interning is not a read: it never records a dependency.
func (db *Database) Intern(value Value) ParamID {
	if value == nil {
		panic("incr: Intern called with a nil Value")
	}
	return db.state.params.intern(value)
}

// Param returns the value interned under id. A memoized function uses it to recover the
// argument behind the ParamID it was invoked with.
func (db *Database) Param(id ParamID) (Value, bool) {
	return db.state.params.lookup(id)
}

// WriteSource installs source as the current value of the slot it names and returns the slot's
// Key. The write advances the logical clock and stamps the slot with the new Epoch
// unconditionally: a source write always counts as a change, even when the value equals the
// one it replaces. Only derived values participate in the equality cutoff.
//
// Writing a value whose Key is already occupied by a different concrete type panics: two
// source types whose SourceKeys collide would silently corrupt each other's slot otherwise.
//
// WriteSource panics when called from inside a memoized function. Recomputation functions
// must only read the database.
func (db *Database) WriteSource(source SourceValue) Key {
	const op Op = "incr.WriteSource"
	if db.frame != nil {
		panic(fmt.Sprintf("%s: write during the computation of %v; memoized functions must "+
			"only read the database", op, db.frame.node))
	}
	key := source.SourceKey()
	if existing, ok := db.state.sources.load(key); ok {
		if reflect.TypeOf(existing.value) != reflect.TypeOf(source) {
			panic(fmt.Sprintf("%s: key %#x already holds a %T; refusing to overwrite it with "+
				"a %T", op, uint64(key), existing.value, source))
		}
	}
	db.state.sources.store(key, &sourceNode{
		value:     source,
		updatedAt: db.state.clock.advance(),
	})
	return key
}

// ReadSource returns the current value of the source slot named by key. When called from
// inside a memoized function the read is recorded as a dependency of that computation,
// stamped with the slot's update Epoch as observed now.
func (db *Database) ReadSource(key Key) (SourceValue, error) {
	const op Op = "incr.ReadSource"
	node, ok := db.state.sources.load(key)
	if !ok {
		return nil, NewError(
			fmt.Sprintf("no source has been written under key %#x", uint64(key)),
			op, ErrKindUnknownKey)
	}
	if db.frame != nil {
		db.frame.record(dependency{node: sourceNodeID(key), at: node.updatedAt})
	}
	return node.value, nil
}

// ReadSourceAs reads the source slot named by key as the concrete type T. A slot holding any
// other type fails with ErrKindTypeMismatch instead of handing back a value the caller would
// have to assert on. Dependency recording follows ReadSource.
func ReadSourceAs[T SourceValue](db *Database, key Key) (T, error) {
	var zero T
	value, err := db.ReadSource(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, NewError(
			fmt.Sprintf("source under key %#x holds a %T, not a %T", uint64(key), value, zero),
			Op("incr.ReadSourceAs"), ErrKindTypeMismatch)
	}
	return typed, nil
}
