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

// MemoFn is the body of a memoized computation. It receives a frame-scoped handle to the
// database and the ParamID of the argument the memo was called with; reads and resolves made
// through db are recorded as dependencies of this computation.
//
// Bodies must be pure with respect to the database: read through ReadSource and Memo.Call (or
// Resolve) only, never write, and derive the result from those reads alone. The engine is free
// to skip, rerun or race invocations, so an impure body breaks the bookkeeping that makes
// reuse sound.
type MemoFn func(db *Database, param ParamID) (Value, error)

// Memo is a named memoized computation. The name is the stable half of every DerivedNodeID
// the memo produces: it must be unique among the memos used against one Database, and it must
// stay the same across processes for their cached results to line up.
type Memo struct {
	name string
	key  Key
	fn   MemoFn
}

// NewMemo registers fn under name.
func NewMemo(name string, fn MemoFn) *Memo {
	if name == "" {
		panic("incr: NewMemo requires a non-empty name")
	}
	if fn == nil {
		panic("incr: NewMemo requires a function")
	}
	return &Memo{
		name: name,
		key:  deriveKey("incr.Memo", name),
		fn:   fn,
	}
}

// Name returns the name the memo was registered under.
func (memo *Memo) Name() string {
	return memo.name
}

// Call resolves the memo for args, reusing the cached result while it remains valid. args is
// interned first; pass Unit for a memo that takes no argument. The DidRecalculate return
// reports whether the body ran and produced a distinct value.
func (memo *Memo) Call(db *Database, args Value) (Value, DidRecalculate, error) {
	return db.Resolve(DerivedNodeID{Key: memo.key, Param: db.Intern(args)}, memo.fn)
}
