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
	"os"
	"path/filepath"

	"github.com/botobag/selene/compiler"
	"github.com/botobag/selene/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "selene-config-")
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).Should(Succeed())
	})

	writeConfig := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).Should(Succeed())
		return path
	}

	It("loads a YAML config and resolves paths against the config directory", func() {
		path := writeConfig("selene.config.yaml", util.Dedent(`
			schema: schema.graphql
			documents:
			  - queries/*.graphql
			  - extra/special.graphql
			artifactDirectory: __selene
			workers: 3
		`))

		config, err := compiler.LoadConfig(path)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(config.Schema).Should(Equal(filepath.Join(dir, "schema.graphql")))
		Expect(config.Documents).Should(Equal([]string{
			filepath.Join(dir, "queries", "*.graphql"),
			filepath.Join(dir, "extra", "special.graphql"),
		}))
		Expect(config.ArtifactDirectory).Should(Equal(filepath.Join(dir, "__selene")))
		Expect(config.Workers).Should(Equal(3))
	})

	It("loads a JSON config", func() {
		path := writeConfig("selene.config.json", util.Dedent(`
			{
			  "schema": "schema.graphql",
			  "documents": ["queries/*.graphql"],
			  "artifactDirectory": "__selene"
			}
		`))

		config, err := compiler.LoadConfig(path)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(config.Schema).Should(Equal(filepath.Join(dir, "schema.graphql")))
		Expect(config.Workers).Should(Equal(0))
	})

	It("keeps absolute paths as they are", func() {
		schema := filepath.Join(dir, "elsewhere", "schema.graphql")
		path := writeConfig("selene.config.yaml", util.Dedent(`
			schema: `+schema+`
			documents:
			  - queries/*.graphql
			artifactDirectory: __selene
		`))

		config, err := compiler.LoadConfig(path)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(config.Schema).Should(Equal(schema))
	})

	It("rejects unknown config formats", func() {
		path := writeConfig("selene.config.toml", `schema = "schema.graphql"`)

		_, err := compiler.LoadConfig(path)
		Expect(err).Should(MatchError(ContainSubstring("unsupported config format")))
	})

	It("reports a missing config file", func() {
		_, err := compiler.LoadConfig(filepath.Join(dir, "no-such-config.yaml"))
		Expect(os.IsNotExist(err)).Should(BeTrue())
	})

	It("rejects a config without a schema", func() {
		path := writeConfig("selene.config.yaml", util.Dedent(`
			documents:
			  - queries/*.graphql
			artifactDirectory: __selene
		`))

		_, err := compiler.LoadConfig(path)
		Expect(err).Should(MatchError(ContainSubstring("schema is required")))
	})

	Describe("Validate", func() {
		newValid := func() *compiler.Config {
			return &compiler.Config{
				Schema:            "schema.graphql",
				Documents:         []string{"queries/*.graphql"},
				ArtifactDirectory: "__selene",
			}
		}

		It("accepts a complete config", func() {
			Expect(newValid().Validate()).Should(Succeed())
		})

		It("requires at least one document pattern", func() {
			config := newValid()
			config.Documents = nil
			Expect(config.Validate()).Should(MatchError(ContainSubstring("documents")))
		})

		It("requires an artifact directory", func() {
			config := newValid()
			config.ArtifactDirectory = ""
			Expect(config.Validate()).Should(MatchError(ContainSubstring("artifactDirectory")))
		})

		It("rejects negative worker counts", func() {
			config := newValid()
			config.Workers = -1
			Expect(config.Validate()).Should(MatchError(ContainSubstring("workers")))
		})
	})
})
