package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vertexkv/vertexkv/pkg/serialiser"
)

// typeDoc is the YAML shape of a single named type: which serialiser
// backs it. New serialiser kinds are added here as the registry grows.
type typeDoc struct {
	Serialiser string `yaml:"serialiser"`
}

type vertexDoc struct {
	Serialiser string `yaml:"serialiser"`
}

type groupDoc struct {
	Properties []string          `yaml:"properties"`
	GroupBy    []string          `yaml:"groupBy"`
	Types      map[string]string `yaml:"types"`
}

// document is the on-disk YAML schema shape.
type document struct {
	Types              map[string]typeDoc  `yaml:"types"`
	Vertex             vertexDoc           `yaml:"vertex"`
	VisibilityProperty string              `yaml:"visibilityProperty"`
	TimestampProperty  string              `yaml:"timestampProperty"`
	Groups             map[string]groupDoc `yaml:"groups"`
}

// resolveSerialiser maps a YAML serialiser name to a concrete
// ToBytesSerialiser. Binding happens once, here, at load time — the
// codec itself never chooses a serialiser by inspecting a Go value's
// runtime type.
func resolveSerialiser(name string) (serialiser.ToBytesSerialiser, error) {
	switch name {
	case "string":
		return serialiser.StringSerialiser{}, nil
	case "orderedint64":
		return serialiser.OrderedInt64Serialiser{}, nil
	case "orderedint32":
		return serialiser.OrderedInt32Serialiser{}, nil
	case "rawint32":
		return serialiser.RawInt32Serialiser{}, nil
	case "rawdouble":
		return serialiser.RawDoubleSerialiser{}, nil
	case "bytes":
		return serialiser.BytesSerialiser{}, nil
	case "bool":
		return serialiser.BoolSerialiser{}, nil
	default:
		return nil, fmt.Errorf("schema: unknown serialiser %q", name)
	}
}

// Load reads and parses a YAML schema document from path and returns a
// frozen Schema. The per-property serialiser for a group is resolved
// either from that group's own `types` override or, failing that, from
// the document-level named `types` table keyed by the property name.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Schema directly from YAML bytes, for callers that
// don't have the document on disk (e.g. embedded defaults).
func Parse(data []byte) (*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: failed to parse document: %w", err)
	}

	vertexSerialiser, err := resolveSerialiser(doc.Vertex.Serialiser)
	if err != nil {
		return nil, fmt.Errorf("schema: vertex: %w", err)
	}

	namedTypes := make(map[string]serialiser.ToBytesSerialiser, len(doc.Types))
	for name, td := range doc.Types {
		s, err := resolveSerialiser(td.Serialiser)
		if err != nil {
			return nil, fmt.Errorf("schema: type %q: %w", name, err)
		}
		namedTypes[name] = s
	}

	groups := make([]*SchemaElementDefinition, 0, len(doc.Groups))
	for groupName, gd := range doc.Groups {
		def := &SchemaElementDefinition{
			Group:      groupName,
			Properties: gd.Properties,
			GroupBy:    gd.GroupBy,
			types:      make(map[string]TypeDefinition, len(gd.Properties)),
		}

		for _, prop := range gd.Properties {
			var s serialiser.ToBytesSerialiser
			if named, ok := gd.Types[prop]; ok {
				resolved, err := resolveSerialiser(named)
				if err != nil {
					return nil, fmt.Errorf("schema: group %q property %q: %w", groupName, prop, err)
				}
				s = resolved
			} else if fromNamed, ok := namedTypes[prop]; ok {
				s = fromNamed
			} else {
				// No serialiser resolvable for a declared property.
				// Treated as emitting an empty frame on encode rather
				// than failing; surfaced via Schema.Warn at encode time.
				continue
			}
			def.types[prop] = TypeDefinition{Serialiser: s}
		}

		groups = append(groups, def)
	}

	s, err := NewSchema(vertexSerialiser, doc.VisibilityProperty, doc.TimestampProperty, groups)
	if err != nil {
		return nil, err
	}
	s.Warn = defaultWarn
	return s, nil
}

func defaultWarn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "schema: "+format+"\n", args...)
}
