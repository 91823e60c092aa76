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

package compiler

import "github.com/botobag/selene/incr"

// The compiler feeds three kinds of sources into the database: the project layout (which files
// exist), the schema text and one DocumentText per executable document. Everything else the
// compiler produces is derived from these.

// ProjectLayout is the singleton source describing where the project's inputs live: the schema
// file and the sorted list of document files. Adding, removing or renaming a document changes
// the layout without touching any document slot.
type ProjectLayout struct {
	SchemaPath    string
	DocumentPaths []string
}

var projectLayoutKey = incr.SourceKeyFor("compiler.ProjectLayout", "")

// SourceKey implements incr.SourceValue.
func (ProjectLayout) SourceKey() incr.Key {
	return projectLayoutKey
}

// Equal implements incr.Value.
func (layout ProjectLayout) Equal(other incr.Value) bool {
	o, ok := other.(ProjectLayout)
	if !ok || o.SchemaPath != layout.SchemaPath || len(o.DocumentPaths) != len(layout.DocumentPaths) {
		return false
	}
	for i, path := range layout.DocumentPaths {
		if o.DocumentPaths[i] != path {
			return false
		}
	}
	return true
}

// SchemaText is the raw SDL of a schema file.
type SchemaText struct {
	Path string
	Text string
}

// SourceKey implements incr.SourceValue.
func (s SchemaText) SourceKey() incr.Key {
	return incr.SourceKeyFor("compiler.SchemaText", s.Path)
}

// Equal implements incr.Value.
func (s SchemaText) Equal(other incr.Value) bool {
	o, ok := other.(SchemaText)
	return ok && o == s
}

// DocumentText is the raw text of one executable document file.
type DocumentText struct {
	Path string
	Text string
}

// SourceKey implements incr.SourceValue.
func (d DocumentText) SourceKey() incr.Key {
	return incr.SourceKeyFor("compiler.DocumentText", d.Path)
}

// Equal implements incr.Value.
func (d DocumentText) Equal(other incr.Value) bool {
	o, ok := other.(DocumentText)
	return ok && o == d
}

// readProjectLayout reads the layout slot, registering the dependency when called from a
// memoized body.
func readProjectLayout(db *incr.Database) (ProjectLayout, error) {
	return incr.ReadSourceAs[ProjectLayout](db, projectLayoutKey)
}

// readSchemaText reads the schema slot for path.
func readSchemaText(db *incr.Database, path string) (SchemaText, error) {
	return incr.ReadSourceAs[SchemaText](db, SchemaText{Path: path}.SourceKey())
}

// readDocumentText reads the document slot for path.
func readDocumentText(db *incr.Database, path string) (DocumentText, error) {
	return incr.ReadSourceAs[DocumentText](db, DocumentText{Path: path}.SourceKey())
}
