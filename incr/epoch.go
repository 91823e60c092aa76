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

import "sync/atomic"

// Epoch is a point on a Database's logical clock. The clock starts at zero and advances by
// exactly one on every source write; nothing else moves it. Every staleness decision the engine
// makes is a comparison between Epoch stamps recorded on nodes and dependency edges, so wall
// time never enters the picture.
type Epoch uint64

// epochClock issues Epochs for a single Database.
type epochClock struct {
	current atomic.Uint64
}

// now returns the current Epoch without advancing the clock.
func (clock *epochClock) now() Epoch {
	return Epoch(clock.current.Load())
}

// advance moves the clock forward by one and returns the new Epoch.
func (clock *epochClock) advance() Epoch {
	return Epoch(clock.current.Add(1))
}
