package codec

import (
	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/escape"
	"github.com/vertexkv/vertexkv/pkg/schema"
)

// ElementRecord is a single backing-store row as the codec produces or
// consumes it: a sortable row key plus the four slots a schema-driven
// store projects columns from.
type ElementRecord struct {
	RowKey          []byte
	ColumnFamily    []byte
	ColumnQualifier []byte
	Visibility      []byte
	Timestamp       int64
	Value           []byte
}

// DecodeOptions controls how much of an ElementRecord decode actually
// materialises. Skipping the value slot is useful when a caller only
// needs group, identity and the group-by properties, e.g. a key-only
// scan; the column qualifier is always decoded.
type DecodeOptions struct {
	// SkipValue, when true, leaves Value-slot properties undecoded
	// even if Value is non-empty.
	SkipValue bool
}

// ElemCodec turns Entity/Edge domain values into ElementRecords and
// back, per a fixed Schema, PropCodec, and RowKeyLayout, using the
// supplied Clock as its only source of non-determinism (a declared
// timestamp property always wins over the clock).
type ElemCodec struct {
	Schema *schema.Schema
	Layout RowKeyLayout
	Clock  element.Clock
	props  PropCodec
}

// NewElemCodec constructs an ElemCodec. clock may be nil, in which
// case element.SystemClock{} is used.
func NewElemCodec(s *schema.Schema, layout RowKeyLayout, clock element.Clock) *ElemCodec {
	if clock == nil {
		clock = element.SystemClock{}
	}
	return &ElemCodec{Schema: s, Layout: layout, Clock: clock}
}

// EncodeEntity produces the single ElementRecord for an Entity.
func (c *ElemCodec) EncodeEntity(e element.Entity) (ElementRecord, error) {
	def := c.Schema.Element(e.Group)
	if def == nil {
		return ElementRecord{}, unknownGroup(e.Group)
	}

	vertexBytes, err := c.Schema.VertexSerialiser.Serialise(e.Vertex)
	if err != nil {
		return ElementRecord{}, encodingUnsupported("entity vertex: " + err.Error())
	}

	rec, err := c.buildCommonSlots(e.Group, def, e.Properties)
	if err != nil {
		return ElementRecord{}, err
	}
	rec.RowKey = escape.Escape(vertexBytes)
	return rec, nil
}

// EncodeEdge produces the primary and, unless this is a self-edge, the
// reverse ElementRecord for an Edge. The second return is nil for a
// self-edge (source and destination equal by value).
func (c *ElemCodec) EncodeEdge(e element.Edge) (primary ElementRecord, reverse *ElementRecord, err error) {
	def := c.Schema.Element(e.Group)
	if def == nil {
		return ElementRecord{}, nil, unknownGroup(e.Group)
	}

	srcBytes, err := c.Schema.VertexSerialiser.Serialise(e.Source)
	if err != nil {
		return ElementRecord{}, nil, encodingUnsupported("edge source: " + err.Error())
	}
	dstBytes, err := c.Schema.VertexSerialiser.Serialise(e.Destination)
	if err != nil {
		return ElementRecord{}, nil, encodingUnsupported("edge destination: " + err.Error())
	}

	common, err := c.buildCommonSlots(e.Group, def, e.Properties)
	if err != nil {
		return ElementRecord{}, nil, err
	}

	primary = common
	primary.RowKey = c.Layout.BuildEdgeRow(srcBytes, dstBytes, edgeFlagFor(e.Directed, false))

	if e.IsSelfEdge() {
		return primary, nil, nil
	}

	rev := common
	rev.RowKey = c.Layout.BuildEdgeRow(dstBytes, srcBytes, edgeFlagFor(e.Directed, true))
	return primary, &rev, nil
}

// buildCommonSlots fills every slot shared between an entity's record
// and both of an edge's records: column family, column qualifier,
// visibility, timestamp, and value.
func (c *ElemCodec) buildCommonSlots(group string, def *schema.SchemaElementDefinition, props element.Properties) (ElementRecord, error) {
	cq, err := c.props.Serialise(group, def, def.GroupBy, props, c.Schema.Warn)
	if err != nil {
		return ElementRecord{}, err
	}

	visibility, err := c.encodeSingleProperty(group, def, c.Schema.VisibilityProperty, props)
	if err != nil {
		return ElementRecord{}, err
	}

	timestamp := c.resolveTimestamp(def, props)

	valueProps := def.ValueProperties(c.Schema.VisibilityProperty, c.Schema.TimestampProperty)
	value, err := c.props.Serialise(group, def, valueProps, props, c.Schema.Warn)
	if err != nil {
		return ElementRecord{}, err
	}

	return ElementRecord{
		ColumnFamily:    []byte(group),
		ColumnQualifier: cq,
		Visibility:      visibility,
		Timestamp:       timestamp,
		Value:           value,
	}, nil
}

func (c *ElemCodec) encodeSingleProperty(group string, def *schema.SchemaElementDefinition, name string, props element.Properties) ([]byte, error) {
	if name == "" || !def.ContainsProperty(name) {
		return nil, nil
	}
	td := def.PropertyTypeDef(name)
	if td == nil {
		return nil, nil
	}
	if v, ok := props[name]; ok && v != nil {
		b, err := td.Serialiser.Serialise(v)
		if err != nil {
			return nil, serializationFailed(group, name, err)
		}
		return b, nil
	}
	return td.Serialiser.SerialiseNull(), nil
}

func (c *ElemCodec) resolveTimestamp(def *schema.SchemaElementDefinition, props element.Properties) int64 {
	name := c.Schema.TimestampProperty
	if name != "" && def.ContainsProperty(name) {
		if v, ok := props[name]; ok {
			if ts, ok := v.(int64); ok {
				return ts
			}
		}
	}
	return c.Clock.NowUnixMillis()
}

// Decode reconstructs an Element from an ElementRecord. An entity row (no
// unescaped delimiter) decodes to an Entity; anything else decodes to
// an Edge.
func (c *ElemCodec) Decode(rec ElementRecord, opts DecodeOptions) (element.Element, error) {
	group := string(rec.ColumnFamily)
	def := c.Schema.Element(group)
	if def == nil {
		return nil, unknownGroup(group)
	}

	segments, err := escape.Split(rec.RowKey)
	if err != nil {
		return nil, corruptRecord("row key", err)
	}

	props, err := c.decodeProperties(group, def, rec, opts)
	if err != nil {
		return nil, err
	}

	if len(segments) == 1 {
		vertex, err := c.Schema.VertexSerialiser.Deserialise(segments[0])
		if err != nil {
			return nil, serializationFailed(group, "vertex", err)
		}
		return element.Entity{Group: group, Vertex: vertex, Properties: props}, nil
	}

	aBytes, bBytes, flag, err := c.Layout.ParseEdgeRow(rec.RowKey)
	if err != nil {
		return nil, err
	}
	a, err := c.Schema.VertexSerialiser.Deserialise(aBytes)
	if err != nil {
		return nil, serializationFailed(group, "edge endpoint", err)
	}
	b, err := c.Schema.VertexSerialiser.Deserialise(bBytes)
	if err != nil {
		return nil, serializationFailed(group, "edge endpoint", err)
	}

	source, destination := a, b
	if flag.reverse() {
		source, destination = b, a
	}

	return element.Edge{
		Group:       group,
		Source:      source,
		Destination: destination,
		Directed:    flag.directed(),
		Properties:  props,
	}, nil
}

func (c *ElemCodec) decodeProperties(group string, def *schema.SchemaElementDefinition, rec ElementRecord, opts DecodeOptions) (element.Properties, error) {
	props, err := c.props.Deserialise(group, def, def.GroupBy, rec.ColumnQualifier)
	if err != nil {
		return nil, err
	}

	if name := c.Schema.VisibilityProperty; name != "" && def.ContainsProperty(name) {
		if td := def.PropertyTypeDef(name); td != nil {
			if len(rec.Visibility) > 0 {
				v, err := td.Serialiser.Deserialise(rec.Visibility)
				if err != nil {
					return nil, serializationFailed(group, name, err)
				}
				props[name] = v
			} else {
				props[name] = td.Serialiser.DeserialiseEmpty()
			}
		}
	}

	if name := c.Schema.TimestampProperty; name != "" && def.ContainsProperty(name) {
		props[name] = rec.Timestamp
	}

	if opts.SkipValue || len(rec.Value) == 0 {
		return props, nil
	}

	valueProps := def.ValueProperties(c.Schema.VisibilityProperty, c.Schema.TimestampProperty)
	decoded, err := c.props.Deserialise(group, def, valueProps, rec.Value)
	if err != nil {
		return nil, err
	}
	for k, v := range decoded {
		props[k] = v
	}
	return props, nil
}
