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

	"github.com/botobag/selene/incr"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// pathArg parameterizes the per-file stages with the path of the file they work on.
type pathArg string

// Equal implements incr.Value.
func (p pathArg) Equal(other incr.Value) bool {
	o, ok := other.(pathArg)
	return ok && o == p
}

// operationArg parameterizes the per-operation artifact stage.
type operationArg struct {
	// Path of the document the operation is defined in.
	Path string

	// Name of the operation.
	Name string
}

// Equal implements incr.Value.
func (a operationArg) Equal(other incr.Value) bool {
	o, ok := other.(operationArg)
	return ok && o == a
}

// mustParam recovers the interned parameter a stage was called with. The database interned the
// value when the stage was called, so a miss is a bug in the pipeline, not user input.
func mustParam(db *incr.Database, param incr.ParamID) incr.Value {
	value, ok := db.Param(param)
	if !ok {
		panic(fmt.Sprintf("compiler: no interned parameter %#x", uint64(param)))
	}
	return value
}

// Pipeline names the stages of the compiler as memoized computations. Stage identities derive
// from the stage names, so any number of Pipeline values used against the same database reuse
// one another's work.
//
// The stages form a dependency graph rooted at the manifest:
//
//	manifest ─┬─ combinedSchema ── schemaModel ── parseSchema ── SchemaText
//	          └─ operationArtifact ── checkDocument ─┬─ parseDocument ── DocumentText
//	                                                 └─ schemaModel
//
// Resolving a stage resolves what it depends on, reusing every result that is still up to
// date. Callers that only need diagnostics resolve CheckedDocument and never pay for
// formatting artifacts.
type Pipeline struct {
	parseSchema       *incr.Memo
	schemaModel       *incr.Memo
	parseDocument     *incr.Memo
	checkDocument     *incr.Memo
	operationArtifact *incr.Memo
	combinedSchema    *incr.Memo
	manifest          *incr.Memo
}

// NewPipeline initializes a Pipeline.
func NewPipeline() *Pipeline {
	p := &Pipeline{}
	p.parseSchema = incr.NewMemo("compiler.parseSchema", p.runParseSchema)
	p.schemaModel = incr.NewMemo("compiler.schemaModel", p.runSchemaModel)
	p.parseDocument = incr.NewMemo("compiler.parseDocument", p.runParseDocument)
	p.checkDocument = incr.NewMemo("compiler.checkDocument", p.runCheckDocument)
	p.operationArtifact = incr.NewMemo("compiler.operationArtifact", p.runOperationArtifact)
	p.combinedSchema = incr.NewMemo("compiler.combinedSchema", p.runCombinedSchema)
	p.manifest = incr.NewMemo("compiler.manifest", p.runManifest)
	return p
}

// Schema parses the schema file at path into its AST form.
func (p *Pipeline) Schema(db *incr.Database, path string) (*ParsedSchema, incr.DidRecalculate, error) {
	value, did, err := p.parseSchema.Call(db, pathArg(path))
	if err != nil {
		return nil, did, err
	}
	return value.(*ParsedSchema), did, nil
}

// Model builds the schema model for the project schema, client fields included.
func (p *Pipeline) Model(db *incr.Database) (*SchemaModel, incr.DidRecalculate, error) {
	value, did, err := p.schemaModel.Call(db, incr.Unit)
	if err != nil {
		return nil, did, err
	}
	return value.(*SchemaModel), did, nil
}

// Document parses the executable document at path into its AST form.
func (p *Pipeline) Document(db *incr.Database, path string) (*ParsedDocument, incr.DidRecalculate, error) {
	value, did, err := p.parseDocument.Call(db, pathArg(path))
	if err != nil {
		return nil, did, err
	}
	return value.(*ParsedDocument), did, nil
}

// CheckedDocument validates the document at path against the project schema and summarizes its
// operations.
func (p *Pipeline) CheckedDocument(db *incr.Database, path string) (*DocumentModel, incr.DidRecalculate, error) {
	value, did, err := p.checkDocument.Call(db, pathArg(path))
	if err != nil {
		return nil, did, err
	}
	return value.(*DocumentModel), did, nil
}

// OperationArtifact renders the named operation from the document at path into its artifact.
func (p *Pipeline) OperationArtifact(db *incr.Database, path, name string) (*Artifact, incr.DidRecalculate, error) {
	value, did, err := p.operationArtifact.Call(db, operationArg{Path: path, Name: name})
	if err != nil {
		return nil, did, err
	}
	return value.(*Artifact), did, nil
}

// CombinedSchema renders the combined schema artifact.
func (p *Pipeline) CombinedSchema(db *incr.Database) (*Artifact, incr.DidRecalculate, error) {
	value, did, err := p.combinedSchema.Call(db, incr.Unit)
	if err != nil {
		return nil, did, err
	}
	return value.(*Artifact), did, nil
}

// Manifest renders the manifest artifact, resolving every other artifact of the project along
// the way.
func (p *Pipeline) Manifest(db *incr.Database) (*Artifact, incr.DidRecalculate, error) {
	value, did, err := p.manifest.Call(db, incr.Unit)
	if err != nil {
		return nil, did, err
	}
	return value.(*Artifact), did, nil
}
