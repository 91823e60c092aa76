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
	"sort"
	"strings"

	"github.com/botobag/selene/incr"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// RefetchFieldName is the name of the client field injected on every object with a strong id.
const RefetchFieldName = "__refetch"

// ParsedSchema is the outcome of parsing and validating the schema SDL. Two ParsedSchemas are
// interchangeable exactly when they were built from the same text, so Equal compares the input
// rather than the parsed tree.
type ParsedSchema struct {
	Path string
	Text string

	// Schema is the validated type system. Treat it as read-only.
	Schema *ast.Schema
}

// Equal implements incr.Value.
func (s *ParsedSchema) Equal(other incr.Value) bool {
	o, ok := other.(*ParsedSchema)
	return ok && o.Path == s.Path && o.Text == s.Text
}

// ClientFieldKind tells how a client field obtains its value.
type ClientFieldKind uint8

const (
	// ClientFieldRefetch marks the injected field that reloads an object by its id.
	ClientFieldRefetch ClientFieldKind = iota
)

// String implements fmt.Stringer.
func (kind ClientFieldKind) String() string {
	switch kind {
	case ClientFieldRefetch:
		return "refetch"
	}
	return "client field"
}

// markerScalar returns the scalar name standing in for fields of this kind in the combined
// schema artifact.
func (kind ClientFieldKind) markerScalar() string {
	switch kind {
	case ClientFieldRefetch:
		return "SeleneRefetchField"
	}
	return "SeleneClientField"
}

// FieldModel describes one server-supplied field of an object.
type FieldModel struct {
	Name        string
	Type        string
	Description string
}

// ClientFieldModel describes one field the compiler provides on the client. The server never
// sees a selection of such a field.
type ClientFieldModel struct {
	Name        string
	Kind        ClientFieldKind
	Description string
}

// ObjectModel describes one object type together with its client-side additions.
type ObjectModel struct {
	Name        string
	Description string

	// HasStrongID reports whether the object declares `id: ID!` without arguments, the shape
	// that makes an object individually refetchable.
	HasStrongID bool

	Fields       []FieldModel
	ClientFields []ClientFieldModel
}

func (obj *ObjectModel) equal(other *ObjectModel) bool {
	if obj.Name != other.Name ||
		obj.Description != other.Description ||
		obj.HasStrongID != other.HasStrongID ||
		len(obj.Fields) != len(other.Fields) ||
		len(obj.ClientFields) != len(other.ClientFields) {
		return false
	}
	for i := range obj.Fields {
		if obj.Fields[i] != other.Fields[i] {
			return false
		}
	}
	for i := range obj.ClientFields {
		if obj.ClientFields[i] != other.ClientFields[i] {
			return false
		}
	}
	return true
}

// ScalarModel describes one custom scalar.
type ScalarModel struct {
	Name        string
	Description string
}

// SchemaModel is the compiler's semantic view of the schema: the objects and custom scalars
// that artifacts are generated from, with client fields injected. It deliberately contains no
// syntax, so reformatting the SDL produces an equal model and stops recompilation right here.
type SchemaModel struct {
	QueryType        string
	MutationType     string
	SubscriptionType string

	// Objects and Scalars are sorted by name.
	Objects []ObjectModel
	Scalars []ScalarModel
}

// Equal implements incr.Value.
func (m *SchemaModel) Equal(other incr.Value) bool {
	o, ok := other.(*SchemaModel)
	if !ok ||
		o.QueryType != m.QueryType ||
		o.MutationType != m.MutationType ||
		o.SubscriptionType != m.SubscriptionType ||
		len(o.Objects) != len(m.Objects) ||
		len(o.Scalars) != len(m.Scalars) {
		return false
	}
	for i := range m.Objects {
		if !m.Objects[i].equal(&o.Objects[i]) {
			return false
		}
	}
	for i := range m.Scalars {
		if m.Scalars[i] != o.Scalars[i] {
			return false
		}
	}
	return true
}

// runParseSchema is the body of the parseSchema stage. Its parameter is the schema path.
func (p *Pipeline) runParseSchema(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	path := string(mustParam(db, param).(pathArg))
	source, err := readSchemaText(db, path)
	if err != nil {
		return nil, err
	}
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: path, Input: source.Text})
	if err != nil {
		return nil, err
	}
	return &ParsedSchema{Path: path, Text: source.Text, Schema: schema}, nil
}

// runSchemaModel is the body of the schemaModel stage. It takes no parameter: the schema path
// comes from the project layout, so moving the schema file invalidates the model through the
// layout dependency.
func (p *Pipeline) runSchemaModel(db *incr.Database, param incr.ParamID) (incr.Value, error) {
	layout, err := readProjectLayout(db)
	if err != nil {
		return nil, err
	}
	parsed, _, err := p.Schema(db, layout.SchemaPath)
	if err != nil {
		return nil, err
	}
	return buildSchemaModel(parsed.Schema), nil
}

// buildSchemaModel walks the validated type system into a SchemaModel, injecting a refetch
// client field on every object with a strong id. Interfaces, unions, enums and input objects
// do not take part in artifact generation and are left out, as are the built-in types.
func buildSchemaModel(schema *ast.Schema) *SchemaModel {
	model := &SchemaModel{}
	if schema.Query != nil {
		model.QueryType = schema.Query.Name
	}
	if schema.Mutation != nil {
		model.MutationType = schema.Mutation.Name
	}
	if schema.Subscription != nil {
		model.SubscriptionType = schema.Subscription.Name
	}

	for _, def := range schema.Types {
		if def.BuiltIn {
			continue
		}
		switch def.Kind {
		case ast.Object:
			model.Objects = append(model.Objects, buildObjectModel(def))
		case ast.Scalar:
			model.Scalars = append(model.Scalars, ScalarModel{
				Name:        def.Name,
				Description: def.Description,
			})
		}
	}

	sort.Slice(model.Objects, func(i, j int) bool {
		return model.Objects[i].Name < model.Objects[j].Name
	})
	sort.Slice(model.Scalars, func(i, j int) bool {
		return model.Scalars[i].Name < model.Scalars[j].Name
	})
	return model
}

func buildObjectModel(def *ast.Definition) ObjectModel {
	obj := ObjectModel{
		Name:        def.Name,
		Description: def.Description,
	}
	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			// Introspection fields supplied by the validator.
			continue
		}
		obj.Fields = append(obj.Fields, FieldModel{
			Name:        field.Name,
			Type:        field.Type.String(),
			Description: field.Description,
		})
		if isStrongID(field) {
			obj.HasStrongID = true
		}
	}
	if obj.HasStrongID {
		obj.ClientFields = append(obj.ClientFields, ClientFieldModel{
			Name:        RefetchFieldName,
			Kind:        ClientFieldRefetch,
			Description: "Refetches this object by its id. Selections of this field never reach the server.",
		})
	}
	return obj
}

// isStrongID reports whether field is the identity shape refetching requires: `id: ID!` with
// no arguments.
func isStrongID(field *ast.FieldDefinition) bool {
	return field.Name == "id" &&
		field.Type.NamedType == "ID" &&
		field.Type.NonNull &&
		len(field.Arguments) == 0
}
