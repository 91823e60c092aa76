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
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/botobag/selene/compiler"
	"github.com/botobag/selene/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compiler", func() {
	var (
		projectDir   string
		artifactsDir string
		c            *compiler.Compiler
	)

	writeFile := func(relative, content string) {
		full := filepath.Join(projectDir, relative)
		Expect(os.MkdirAll(filepath.Dir(full), 0755)).Should(Succeed())
		Expect(os.WriteFile(full, []byte(content), 0644)).Should(Succeed())
	}

	readArtifact := func(relative string) string {
		data, err := os.ReadFile(filepath.Join(artifactsDir, relative))
		Expect(err).ShouldNot(HaveOccurred())
		return string(data)
	}

	BeforeEach(func() {
		var err error
		projectDir, err = os.MkdirTemp("", "selene-project-")
		Expect(err).ShouldNot(HaveOccurred())
		artifactsDir = filepath.Join(projectDir, "__selene")

		writeFile("schema.graphql", testSchemaSDL)
		writeFile("queries/me.graphql", meQuery)
		writeFile("queries/viewer.graphql", viewerQuery)

		c, err = compiler.New(&compiler.Config{
			Schema:            filepath.Join(projectDir, "schema.graphql"),
			Documents:         []string{filepath.Join(projectDir, "queries", "*.graphql")},
			ArtifactDirectory: artifactsDir,
			Workers:           2,
		}, nil)
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(c.Close()).Should(Succeed())
		Expect(os.RemoveAll(projectDir)).Should(Succeed())
	})

	It("compiles a project into artifacts", func() {
		stats, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stats.BuildID).ShouldNot(BeEmpty())
		Expect(stats.Documents).Should(Equal(2))
		Expect(stats.Operations).Should(Equal(2))
		Expect(stats.Recalculated).Should(Equal(6))
		Expect(stats.Reused).Should(BeZero())
		Expect(stats.Artifacts).Should(Equal(4))

		Expect(readArtifact("schema.graphql")).Should(ContainSubstring("scalar SeleneRefetchField"))
		Expect(readArtifact(filepath.Join("operations", "Me.graphql"))).Should(ContainSubstring("query Me"))
		Expect(readArtifact(filepath.Join("operations", "ViewerHome.graphql"))).Should(ContainSubstring("query ViewerHome"))
		Expect(readArtifact("manifest.json")).Should(ContainSubstring("operations/Me.graphql"))
	})

	It("reports zero recalculations for an unchanged project", func() {
		_, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())

		stats, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stats.Recalculated).Should(BeZero())
		Expect(stats.Reused).Should(Equal(6))
		Expect(stats.Artifacts).Should(BeZero())
	})

	It("rewrites only the artifacts a change affects", func() {
		_, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		combinedBefore := readArtifact("schema.graphql")

		writeFile("queries/me.graphql", meQueryWithEmail)

		stats, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		// The Me artifact and the manifest; everything else verifies or cuts off.
		Expect(stats.Recalculated).Should(Equal(2))
		Expect(stats.Artifacts).Should(Equal(2))
		Expect(readArtifact(filepath.Join("operations", "Me.graphql"))).Should(ContainSubstring("email"))
		Expect(readArtifact("schema.graphql")).Should(Equal(combinedBefore))
	})

	It("leaves artifacts alone when a document is only reformatted", func() {
		_, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())

		writeFile("queries/me.graphql", "# reviewed\n"+meQuery)

		stats, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stats.Recalculated).Should(BeZero())
		Expect(stats.Artifacts).Should(BeZero())
	})

	It("regenerates the combined schema when the schema grows", func() {
		_, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())

		writeFile("schema.graphql", testSchemaSDL+"\n"+util.Dedent(`
			type Team {
				id: ID!
				name: String!
			}
		`))

		stats, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		// The combined schema and the manifest; operation artifacts are untouched.
		Expect(stats.Recalculated).Should(Equal(2))
		Expect(stats.Artifacts).Should(Equal(2))
		Expect(readArtifact("schema.graphql")).Should(ContainSubstring("type Team {"))
	})

	It("reports every invalid document and writes nothing", func() {
		writeFile("queries/me.graphql", "query Me { me { shoeSize } }")
		writeFile("queries/viewer.graphql", "query ViewerHome { viewer { whoops } }")

		_, err := c.Compile(context.Background())
		Expect(err).Should(MatchError(ContainSubstring("shoeSize")))
		Expect(err).Should(MatchError(ContainSubstring("whoops")))

		_, statErr := os.Stat(artifactsDir)
		Expect(os.IsNotExist(statErr)).Should(BeTrue())
	})

	It("recovers incrementally after a failing pass", func() {
		_, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())

		writeFile("queries/me.graphql", "query Me { me { shoeSize } }")
		_, err = c.Compile(context.Background())
		Expect(err).Should(HaveOccurred())

		writeFile("queries/me.graphql", meQuery)
		stats, err := c.Compile(context.Background())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stats.Recalculated).Should(BeZero())
		Expect(stats.Artifacts).Should(BeZero())
	})

	Describe("Watch", func() {
		It("recompiles when a source changes", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- c.Watch(ctx)
			}()

			Eventually(func() error {
				_, err := os.Stat(filepath.Join(artifactsDir, "manifest.json"))
				return err
			}, 5*time.Second, 50*time.Millisecond).Should(Succeed())

			writeFile("queries/me.graphql", meQueryWithEmail)

			Eventually(func() string {
				data, _ := os.ReadFile(filepath.Join(artifactsDir, "operations", "Me.graphql"))
				return string(data)
			}, 5*time.Second, 50*time.Millisecond).Should(ContainSubstring("email"))

			cancel()
			var result error
			Eventually(done, 2*time.Second).Should(Receive(&result))
			Expect(result).Should(MatchError(context.Canceled))
		})
	})
})
