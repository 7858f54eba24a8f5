// Package schema defines the Schema that the codec is constructed
// with: per-group property layout, which properties are group-by,
// visibility, or timestamp, and which byte serialiser backs each
// property type. A Schema is built once (via Load or NewSchema),
// frozen, and shared read-only thereafter.
package schema

import (
	"fmt"

	"github.com/vertexkv/vertexkv/pkg/serialiser"
)

// TypeDefinition binds a property (or the vertex identity) to the byte
// serialiser that encodes and decodes it.
type TypeDefinition struct {
	Serialiser serialiser.ToBytesSerialiser
}

// SchemaElementDefinition is the per-group layout: the full ordered
// property list, the ordered group-by subset that is placed in the
// column qualifier, and each property's TypeDefinition.
type SchemaElementDefinition struct {
	Group      string
	Properties []string
	GroupBy    []string
	types      map[string]TypeDefinition
}

// PropertyTypeDef returns the TypeDefinition for name, or nil if the
// group has no serialiser bound to that property name. A nil return is
// not necessarily an error — the codec emits an empty VarFrame(0) in
// that case rather than failing.
func (d *SchemaElementDefinition) PropertyTypeDef(name string) *TypeDefinition {
	if d.types == nil {
		return nil
	}
	if td, ok := d.types[name]; ok {
		return &td
	}
	return nil
}

// ContainsProperty reports whether name is declared on this group at
// all (irrespective of whether it has a serialiser bound).
func (d *SchemaElementDefinition) ContainsProperty(name string) bool {
	for _, p := range d.Properties {
		if p == name {
			return true
		}
	}
	return false
}

// ValueProperties returns the ordered subset of Properties that belong
// in the value slot: not group-by, not the visibility property, not
// the timestamp property.
func (d *SchemaElementDefinition) ValueProperties(visibilityProperty, timestampProperty string) []string {
	groupBy := make(map[string]struct{}, len(d.GroupBy))
	for _, g := range d.GroupBy {
		groupBy[g] = struct{}{}
	}

	out := make([]string, 0, len(d.Properties))
	for _, p := range d.Properties {
		if _, isGroupBy := groupBy[p]; isGroupBy {
			continue
		}
		if p == visibilityProperty || p == timestampProperty {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WarnFunc receives a warning-channel event. Parse installs a default
// that writes the message to stderr, and NewSchema installs a no-op;
// codec code never logs directly — it only ever calls this injected
// function, and tests can substitute their own to capture the message
// instead of touching stderr.
type WarnFunc func(format string, args ...any)

// Schema is the codec's single external, read-only configuration
// input. Construct with NewSchema or Load, never mutate after
// construction.
type Schema struct {
	VertexSerialiser   serialiser.ToBytesSerialiser
	VisibilityProperty string
	TimestampProperty  string
	Warn               WarnFunc

	groups map[string]*SchemaElementDefinition
}

// NewSchema builds a frozen Schema from explicit parts. Intended for
// programmatic construction (tests, embedders); Load is the entry
// point for YAML-configured deployments.
func NewSchema(vertexSerialiser serialiser.ToBytesSerialiser, visibilityProperty, timestampProperty string, groups []*SchemaElementDefinition) (*Schema, error) {
	if vertexSerialiser == nil {
		return nil, fmt.Errorf("schema: vertex serialiser is required")
	}

	s := &Schema{
		VertexSerialiser:   vertexSerialiser,
		VisibilityProperty: visibilityProperty,
		TimestampProperty:  timestampProperty,
		Warn:               func(string, ...any) {},
		groups:             make(map[string]*SchemaElementDefinition, len(groups)),
	}
	for _, g := range groups {
		if g.Group == "" {
			return nil, fmt.Errorf("schema: group definition missing a group name")
		}
		s.groups[g.Group] = g
	}
	return s, nil
}

// Element returns the SchemaElementDefinition for group, or nil if the
// group is not declared.
func (s *Schema) Element(group string) *SchemaElementDefinition {
	return s.groups[group]
}

// Groups returns the set of declared group names, for diagnostics.
func (s *Schema) Groups() []string {
	out := make([]string, 0, len(s.groups))
	for g := range s.groups {
		out = append(out, g)
	}
	return out
}

// CoerceJSONProperties narrows each value in m to the Go type group's
// declared serialiser for that property expects. JSON decodes every
// number as float64; a property backed by an int32 or int64 serialiser
// needs that float64 converted back before a codec tries to serialise
// it. Unknown groups, unknown properties, and non-numeric values pass
// through unchanged.
func (s *Schema) CoerceJSONProperties(group string, m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	def := s.Element(group)
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if def == nil {
			out[k] = v
			continue
		}
		out[k] = s.coerceJSONField(def.PropertyTypeDef(k), v)
	}
	return out
}

// CoerceJSONFieldValue applies the same conversion as
// CoerceJSONProperties to a single value, for a field whose owning
// group isn't known up front — a query's comparison value, say. It
// scans the declared groups and uses whichever one first declares
// field, on the assumption that a field means the same type in every
// group that declares it.
func (s *Schema) CoerceJSONFieldValue(field string, v interface{}) interface{} {
	for _, group := range s.Groups() {
		def := s.Element(group)
		if def == nil || !def.ContainsProperty(field) {
			continue
		}
		return s.coerceJSONField(def.PropertyTypeDef(field), v)
	}
	return v
}

func (s *Schema) coerceJSONField(td *TypeDefinition, v interface{}) interface{} {
	if td == nil {
		return v
	}
	f, ok := v.(float64)
	if !ok {
		return v
	}
	switch td.Serialiser.(type) {
	case serialiser.RawInt32Serialiser, serialiser.OrderedInt32Serialiser:
		return int32(f)
	case serialiser.OrderedInt64Serialiser:
		return int64(f)
	default:
		return v
	}
}
