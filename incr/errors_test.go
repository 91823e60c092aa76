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

package incr_test

import (
	"errors"
	"fmt"

	"github.com/botobag/selene/incr"
	"github.com/botobag/selene/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewError", func() {
	It("builds an error from a message alone", func() {
		err := incr.NewError("something went sideways")
		Expect(err.Error()).Should(Equal("something went sideways"))
	})

	It("prefixes the operation and classification", func() {
		err := incr.NewError("no source has been written under key 0x2a",
			incr.Op("incr.ReadSource"), incr.ErrKindUnknownKey)
		Expect(err.Error()).Should(Equal(
			"incr.ReadSource: unknown source key: no source has been written under key 0x2a"))
	})

	It("chains an underlying error and keeps it reachable through errors.Is", func() {
		cause := errors.New("disk on fire")
		err := incr.NewError("reading input", incr.Op("incr.ReadSource"), cause)

		Expect(err.Error()).Should(Equal("incr.ReadSource: reading input: disk on fire"))
		Expect(errors.Is(err, cause)).Should(BeTrue())
	})

	It("keeps each field addressable for matching", func() {
		err := incr.NewError("no source has been written under key 0x2a",
			incr.Op("incr.ReadSource"), incr.ErrKindUnknownKey)
		Expect(err).Should(testutil.MatchIncrError(
			testutil.MessageEqual("no source has been written under key 0x2a"),
			testutil.OpIs(incr.Op("incr.ReadSource")),
			testutil.KindIs(incr.ErrKindUnknownKey),
		))
	})

	It("panics on an argument it does not understand", func() {
		Expect(func() {
			_ = incr.NewError("bad call", 42)
		}).Should(Panic())
	})
})

var _ = Describe("KindOf", func() {
	It("extracts the kind of a package error", func() {
		err := incr.NewError("boom", incr.ErrKindCycle)
		Expect(incr.KindOf(err)).Should(Equal(incr.ErrKindCycle))
	})

	It("finds the kind through wrapping", func() {
		err := fmt.Errorf("outer context: %w", incr.NewError("boom", incr.ErrKindTypeMismatch))
		Expect(incr.KindOf(err)).Should(Equal(incr.ErrKindTypeMismatch))
	})

	It("falls back to ErrKindOther for foreign errors", func() {
		Expect(incr.KindOf(errors.New("not ours"))).Should(Equal(incr.ErrKindOther))
	})
})
