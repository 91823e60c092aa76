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

import (
	"fmt"
	"sort"

	"github.com/botobag/selene/incr"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// ParsedDocument is the outcome of parsing one executable document. Like ParsedSchema, it is
// interchangeable exactly when the input text matches.
type ParsedDocument struct {
	Path string
	Text string

	// Document is the parsed operations and fragments. Treat it as read-only.
	Document *ast.QueryDocument
}

// Equal implements incr.Value.
func (d *ParsedDocument) Equal(other incr.Value) bool {
	o, ok := other.(*ParsedDocument)
	return ok && o.Path == d.Path && o.Text == d.Text
}

// OperationModel describes one named operation in a checked document.
type OperationModel struct {
	Name string

	// Kind is "query", "mutation" or "subscription".
	Kind string

	// Fragments names every fragment the operation transitively spreads, sorted.
	Fragments []string
}

func (op *OperationModel) equal(other *OperationModel) bool {
	if op.Name != other.Name || op.Kind != other.Kind || len(op.Fragments) != len(other.Fragments) {
		return false
	}
	for i, name := range op.Fragments {
		if other.Fragments[i] != name {
			return false
		}
	}
	return true
}

// DocumentModel is the checked inventory of one document file: the operations it defines,
// valid against the schema. Reordering or reformatting the document yields an equal model.
type DocumentModel struct {
	Path string

	// Operations are sorted by name.
	Operations []OperationModel
}

// Equal implements incr.Value.
func (d *DocumentModel) Equal(other incr.Value) bool {
	o, ok := other.(*DocumentModel)
	if !ok || o.Path != d.Path || len(o.Operations) != len(d.Operations) {
		return false
	}
	for i := range d.Operations {
		if !d.Operations[i].equal(&o.Operations[i]) {
			return false
		}
	}
	return true
}

// runParseDocument is the body of the parseDocument stage. Its parameter is the document path.
func (p *Pipeline) runParseDocument(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	path := string(mustParam(db, param).(pathArg))
	source, err := readDocumentText(db, path)
	if err != nil {
		return nil, err
	}
	doc, err := parser.ParseQuery(&ast.Source{Name: path, Input: source.Text})
	if err != nil {
		return nil, err
	}
	return &ParsedDocument{Path: path, Text: source.Text, Document: doc}, nil
}

// runCheckDocument is the body of the checkDocument stage: validate the parsed document
// against the schema and distill the operation inventory.
func (p *Pipeline) runCheckDocument(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	path := string(mustParam(db, param).(pathArg))
	layout, err := readProjectLayout(db)
	if err != nil {
		return nil, err
	}
	parsed, _, err := p.Document(db, path)
	if err != nil {
		return nil, err
	}
	schema, _, err := p.Schema(db, layout.SchemaPath)
	if err != nil {
		return nil, err
	}

	if errs := validator.Validate(schema.Schema, parsed.Document); len(errs) > 0 {
		return nil, errs
	}

	model := &DocumentModel{Path: path}
	for _, op := range parsed.Document.Operations {
		if op.Name == "" {
			return nil, fmt.Errorf("%s: anonymous operations are not supported; name every operation", path)
		}
		model.Operations = append(model.Operations, OperationModel{
			Name:      op.Name,
			Kind:      string(op.Operation),
			Fragments: collectFragments(op.SelectionSet, parsed.Document),
		})
	}
	sort.Slice(model.Operations, func(i, j int) bool {
		return model.Operations[i].Name < model.Operations[j].Name
	})
	return model, nil
}

// collectFragments returns the names of every fragment the selection transitively spreads,
// deduplicated and sorted. Unknown spreads are ignored here; validation has already rejected
// them.
func collectFragments(selections ast.SelectionSet, doc *ast.QueryDocument) []string {
	seen := make(map[string]bool)
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, selection := range set {
			switch selection := selection.(type) {
			case *ast.Field:
				walk(selection.SelectionSet)
			case *ast.InlineFragment:
				walk(selection.SelectionSet)
			case *ast.FragmentSpread:
				if seen[selection.Name] {
					continue
				}
				seen[selection.Name] = true
				if def := doc.Fragments.ForName(selection.Name); def != nil {
					walk(def.SelectionSet)
				}
			}
		}
	}
	walk(selections)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
