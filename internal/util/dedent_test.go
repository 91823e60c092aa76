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

package util_test

import (
	"strings"

	"github.com/botobag/selene/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dedent", func() {
	It("removes indentation in typical usage", func() {
		output := util.Dedent(`
      type Query {
        me: User
      }

      type User {
        id: ID
        name: String
      }
    `)

		Expect(output).Should(Equal(strings.Join([]string{
			"type Query {",
			"  me: User",
			"}",
			"",
			"type User {",
			"  id: ID",
			"  name: String",
			"}",
			"",
		}, "\n")))
	})

	It("uses the least-indented line as the margin", func() {
		output := util.Dedent(`
          query Me {
        viewer {
          name
        }
      }
    `)

		Expect(output).Should(Equal(strings.Join([]string{
			"    query Me {",
			"  viewer {",
			"    name",
			"  }",
			"}",
			"",
		}, "\n")))
	})

	It("does not escape special characters", func() {
		output := util.Dedent(`
      type Root {
        field(arg: String = "wi\th de\fault"): String
      }
    `)

		Expect(output).Should(Equal(strings.Join([]string{
			`type Root {`,
			`  field(arg: String = "wi\th de\fault"): String`,
			`}`,
			``,
		}, "\n")))
	})

	It("removes leading newlines", func() {
		output := util.Dedent(`


      type Query {
        me: User
      }`)

		Expect(output).Should(Equal(strings.Join([]string{
			"type Query {",
			"  me: User",
			"}",
		}, "\n")))
	})

	It("does not remove trailing newlines", func() {
		output := util.Dedent(`
      type Query {
        me: User
      }

    `)

		Expect(output).Should(Equal(strings.Join([]string{
			"type Query {",
			"  me: User",
			"}",
			"",
			"",
		}, "\n")))
	})

	It("removes all trailing spaces and tabs", func() {
		output := util.Dedent(`
      type Query {
        me: User
      }
          		  	 `)
		Expect(output).Should(Equal(strings.Join([]string{
			"type Query {",
			"  me: User",
			"}",
			"",
		}, "\n")))
	})

	It("works on text without leading newline", func() {
		output := util.Dedent(`      type Query {
        me: User
      }`)

		Expect(output).Should(Equal(strings.Join([]string{
			"type Query {",
			"  me: User",
			"}",
		}, "\n")))
	})

	It("leaves unindented text alone", func() {
		output := util.Dedent("query Me {\n  viewer\n}")
		Expect(output).Should(Equal("query Me {\n  viewer\n}"))
	})
})
