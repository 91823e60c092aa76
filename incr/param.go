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

// paramArena interns parameter values so a DerivedNodeID can name its argument with a
// fixed-size ParamID. The arena only grows over the lifetime of a Database; an ID handed out
// once never dangles.
type paramArena struct {
	values util.SyncMap // ParamID -> Value
}

// intern stores value under its content hash and returns the hash as the value's ParamID. The
// first insertion for an ID wins; a later call with an equal value returns the same ID without
// replacing the stored value, so concurrent callers may intern the same argument freely.
func (arena *paramArena) intern(value Value) ParamID {
	id := ParamID(contentHash(value))
	arena.values.LoadOrStore(id, value)
	return id
}

// lookup returns the value interned under id.
func (arena *paramArena) lookup(id ParamID) (Value, bool) {
	value, ok := arena.values.Load(id)
	if !ok {
		return nil, false
	}
	return value.(Value), true
}
