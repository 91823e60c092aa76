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

// Value is the contract for everything stored in a Database: source inputs, interned
// parameters and memoized results. The engine never inspects a value beyond this interface;
// equality is what drives the change-propagation cutoff, so it should mean "interchangeable
// for every downstream computation".
type Value interface {
	// Equal reports whether other carries the same content as this value. Implementations must
	// be deterministic and symmetric, and must return false for values of a different concrete
	// type.
	Equal(other Value) bool
}

// Hashable lets a Value supply its own content hash when the default canonical encoding is
// unavailable or too slow, such as values holding unexported state or trees with a cheap
// precomputed digest. The hash must agree with Equal: equal values hash alike.
type Hashable interface {
	HashContent() uint64
}

// Unit is the argument for memoized functions that take no parameter.
var Unit Value = unit{}

type unit struct{}

// Equal implements Value.
func (unit) Equal(other Value) bool {
	_, ok := other.(unit)
	return ok
}
