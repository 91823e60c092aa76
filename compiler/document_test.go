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

package compiler_test

import (
	"github.com/botobag/selene/incr"
	"github.com/botobag/selene/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Document", func() {
	It("parses operations and fragments", func() {
		project := newTestProject(testSchemaSDL, map[string]string{
			"queries/me.graphql": meQuery,
		})

		parsed, _, err := project.pipeline.Document(project.db, "queries/me.graphql")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(parsed.Document.Operations).Should(HaveLen(1))
		Expect(parsed.Document.Fragments).Should(HaveLen(1))
	})

	It("reports syntax errors with the document path", func() {
		project := newTestProject(testSchemaSDL, map[string]string{
			"queries/broken.graphql": "query Broken {",
		})

		_, _, err := project.pipeline.Document(project.db, "queries/broken.graphql")
		Expect(err).Should(MatchError(ContainSubstring("queries/broken.graphql")))
	})

	Describe("checking", func() {
		It("summarizes the operations of a valid document", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/me.graphql": meQuery,
			})

			checked, did, err := project.pipeline.CheckedDocument(project.db, "queries/me.graphql")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(did).Should(Equal(incr.Recalculated))
			Expect(checked.Path).Should(Equal("queries/me.graphql"))
			Expect(checked.Operations).Should(HaveLen(1))
			Expect(checked.Operations[0].Name).Should(Equal("Me"))
			Expect(checked.Operations[0].Kind).Should(Equal("query"))
			Expect(checked.Operations[0].Fragments).Should(Equal([]string{"UserBits"}))
		})

		It("rejects selections the schema does not have", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/bad.graphql": util.Dedent(`
					query Bad {
						me {
							shoeSize
						}
					}
				`),
			})

			_, _, err := project.pipeline.CheckedDocument(project.db, "queries/bad.graphql")
			Expect(err).Should(MatchError(ContainSubstring("shoeSize")))
		})

		It("rejects anonymous operations", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/anon.graphql": util.Dedent(`
					{
						me {
							name
						}
					}
				`),
			})

			_, _, err := project.pipeline.CheckedDocument(project.db, "queries/anon.graphql")
			Expect(err).Should(MatchError(ContainSubstring("anonymous operations are not supported")))
		})

		It("sorts operations by name", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/home.graphql": util.Dedent(`
					query Zeta {
						me {
							name
						}
					}

					query Alpha {
						viewer {
							greeting
						}
					}
				`),
			})

			checked, _, err := project.pipeline.CheckedDocument(project.db, "queries/home.graphql")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(checked.Operations).Should(HaveLen(2))
			Expect(checked.Operations[0].Name).Should(Equal("Alpha"))
			Expect(checked.Operations[1].Name).Should(Equal("Zeta"))
		})

		It("collects transitively spread fragments, sorted and deduplicated", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/friends.graphql": util.Dedent(`
					query Friends {
						me {
							...Outer
							bestFriend {
								...Inner
							}
						}
					}

					fragment Outer on User {
						name
						bestFriend {
							...Inner
						}
					}

					fragment Inner on User {
						id
						name
					}
				`),
			})

			checked, _, err := project.pipeline.CheckedDocument(project.db, "queries/friends.graphql")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(checked.Operations[0].Fragments).Should(Equal([]string{"Inner", "Outer"}))
		})

		It("is unchanged by document reformatting", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/me.graphql": meQuery,
			})

			before, did, err := project.pipeline.CheckedDocument(project.db, "queries/me.graphql")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(did).Should(Equal(incr.Recalculated))

			project.writeDocument("queries/me.graphql", "# touched\n"+meQuery)

			after, did, err := project.pipeline.CheckedDocument(project.db, "queries/me.graphql")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(did).Should(Equal(incr.NotRecalculated))
			Expect(after).Should(BeIdenticalTo(before))
		})

		It("revalidates when the schema loses a field a document uses", func() {
			project := newTestProject(testSchemaSDL, map[string]string{
				"queries/me.graphql": meQuery,
			})

			_, _, err := project.pipeline.CheckedDocument(project.db, "queries/me.graphql")
			Expect(err).ShouldNot(HaveOccurred())

			// Drop bestFriend, which UserBits selects.
			project.writeSchema(util.Dedent(`
				type User {
					id: ID!
					name: String!
				}

				type Query {
					me: User
				}
			`))

			_, _, err = project.pipeline.CheckedDocument(project.db, "queries/me.graphql")
			Expect(err).Should(MatchError(ContainSubstring("bestFriend")))

			// The last good inventory is still served once the schema is restored.
			project.writeSchema(testSchemaSDL)
			checked, _, err := project.pipeline.CheckedDocument(project.db, "queries/me.graphql")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(checked.Operations[0].Name).Should(Equal("Me"))
		})
	})
})
