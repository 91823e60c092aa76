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
	"bytes"
	"fmt"
	"hash/fnv"
	"path"
	"sort"
	"strings"

	"github.com/botobag/selene/incr"
	"github.com/botobag/selene/internal/unsafe"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Names of the artifacts that exist once per project.
const (
	// CombinedSchemaFileName is the SDL artifact describing server and client fields together.
	CombinedSchemaFileName = "schema.graphql"

	// ManifestFileName is the JSON inventory of every artifact of the build.
	ManifestFileName = "manifest.json"

	// OperationArtifactDir is the directory, relative to the artifact directory, that
	// per-operation artifacts are written into.
	OperationArtifactDir = "operations"
)

// Artifact is one file the compiler emits. Path is relative to the artifact directory, using
// forward slashes, so artifact values are identical across machines and check out cleanly in
// the manifest.
type Artifact struct {
	Path    string
	Content string
}

// Equal implements incr.Value.
func (a *Artifact) Equal(other incr.Value) bool {
	o, ok := other.(*Artifact)
	return ok && *o == *a
}

// runOperationArtifact is the body of the operationArtifact stage: print one operation,
// together with the fragments it spreads, as the canonical query text sent over the wire.
func (p *Pipeline) runOperationArtifact(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	arg := mustParam(db, param).(operationArg)
	checked, _, err := p.CheckedDocument(db, arg.Path)
	if err != nil {
		return nil, err
	}
	parsed, _, err := p.Document(db, arg.Path)
	if err != nil {
		return nil, err
	}

	var model *OperationModel
	for i := range checked.Operations {
		if checked.Operations[i].Name == arg.Name {
			model = &checked.Operations[i]
			break
		}
	}
	operation := parsed.Document.Operations.ForName(arg.Name)
	if model == nil || operation == nil {
		return nil, fmt.Errorf("%s: no operation named %q", arg.Path, arg.Name)
	}

	pruned := &ast.QueryDocument{Operations: ast.OperationList{operation}}
	for _, name := range model.Fragments {
		if def := parsed.Document.Fragments.ForName(name); def != nil {
			pruned.Fragments = append(pruned.Fragments, def)
		}
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(pruned)
	return &Artifact{
		Path:    path.Join(OperationArtifactDir, arg.Name+".graphql"),
		Content: buf.String(),
	}, nil
}

// runCombinedSchema is the body of the combinedSchema stage: render the schema model, client
// fields included, back into SDL for editors and review.
func (p *Pipeline) runCombinedSchema(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	model, _, err := p.Model(db)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Path:    CombinedSchemaFileName,
		Content: renderCombinedSchema(model),
	}, nil
}

// combinedSchemaPrelude declares the marker scalars client fields are typed with in the
// combined schema. It is emitted whether or not the project uses them, so diffs of the
// artifact stay stable as client fields come and go.
const combinedSchemaPrelude = `"""
A scalar standing in for a field the selene compiler resolves on the client.
"""
scalar SeleneClientField

"""
A scalar standing in for a field the selene compiler loads imperatively,
such as __refetch.
"""
scalar SeleneRefetchField

`

func renderCombinedSchema(model *SchemaModel) string {
	var out strings.Builder
	out.WriteString(combinedSchemaPrelude)

	for i := range model.Objects {
		obj := &model.Objects[i]
		writeDescription(&out, obj.Description, "")
		fmt.Fprintf(&out, "type %s {\n", obj.Name)
		for _, field := range obj.Fields {
			writeDescription(&out, field.Description, "    ")
			fmt.Fprintf(&out, "    %s: %s\n", field.Name, field.Type)
		}
		for _, client := range obj.ClientFields {
			writeDescription(&out, client.Description, "    ")
			fmt.Fprintf(&out, "    %s: %s\n", client.Name, client.Kind.markerScalar())
		}
		out.WriteString("}\n\n")
	}

	for _, scalar := range model.Scalars {
		writeDescription(&out, scalar.Description, "")
		fmt.Fprintf(&out, "scalar %s\n", scalar.Name)
	}
	return out.String()
}

func writeDescription(out *strings.Builder, description, padding string) {
	if description == "" {
		return
	}
	fmt.Fprintf(out, "%s\"\"\"\n", padding)
	for _, line := range strings.Split(description, "\n") {
		fmt.Fprintf(out, "%s%s\n", padding, line)
	}
	fmt.Fprintf(out, "%s\"\"\"\n", padding)
}

// manifestPayload is the JSON shape of the manifest artifact.
type manifestPayload struct {
	Artifacts []manifestEntry `json:"artifacts"`
}

type manifestEntry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// runManifest is the body of the manifest stage. It resolves every other artifact of the
// project, so resolving the manifest alone brings the whole build up to date. Operation names
// must be unique across the project; the manifest is where a cross-file collision surfaces.
func (p *Pipeline) runManifest(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	layout, err := readProjectLayout(db)
	if err != nil {
		return nil, err
	}

	combined, _, err := p.CombinedSchema(db)
	if err != nil {
		return nil, err
	}
	artifacts := []*Artifact{combined}

	definedIn := make(map[string]string)
	for _, docPath := range layout.DocumentPaths {
		checked, _, err := p.CheckedDocument(db, docPath)
		if err != nil {
			return nil, err
		}
		for _, op := range checked.Operations {
			if prev, ok := definedIn[op.Name]; ok {
				return nil, fmt.Errorf(
					"operation %q is defined in both %s and %s; operation names must be unique across the project",
					op.Name, prev, docPath)
			}
			definedIn[op.Name] = docPath

			artifact, _, err := p.OperationArtifact(db, docPath, op.Name)
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, artifact)
		}
	}

	entries := make([]manifestEntry, len(artifacts))
	for i, artifact := range artifacts {
		entries[i] = manifestEntry{
			Path: artifact.Path,
			Hash: contentDigest(artifact.Content),
		}
	}
	// The walk above follows layout order; the manifest itself is sorted by path.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	data, err := json.MarshalIndent(manifestPayload{Artifacts: entries}, "", "  ")
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Path:    ManifestFileName,
		Content: string(data) + "\n",
	}, nil
}

// contentDigest is the fingerprint the manifest records per artifact: the FNV-1a digest of the
// content in fixed-width hex.
func contentDigest(content string) string {
	digest := fnv.New64a()
	digest.Write(unsafe.Bytes(content))
	return fmt.Sprintf("%016x", digest.Sum64())
}
