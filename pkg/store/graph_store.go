package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vertexkv/vertexkv/pkg/codec"
	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/escape"
	"github.com/vertexkv/vertexkv/pkg/schema"
)

// GraphStoreConfig configures a GraphStore's on-disk layout and
// durability behaviour.
type GraphStoreConfig struct {
	// DataDir holds both the write-ahead log (in a "wal" subdirectory)
	// and the ordered backing table (in a "table" subdirectory).
	DataDir string
	// Layout chooses how edge row keys are laid out. Defaults to
	// ByteOrderedLayout if nil.
	Layout codec.RowKeyLayout
	// Clock supplies timestamps for elements that don't declare their
	// own timestamp property. Defaults to element.SystemClock{}.
	Clock element.Clock
	// FsyncInterval controls how often the write-ahead log flushes to
	// disk; zero means fsync on every write.
	FsyncInterval time.Duration
}

// GraphStore is a schema-driven graph storage engine: entities and
// edges go in as element.Entity/element.Edge values, are turned into
// ElementRecords by an ElemCodec, and land in an ordered, durable
// backing table keyed by the resulting row key.
//
// Writes are mirrored to a write-ahead log before they reach the
// backing table, matching the crash-recovery philosophy KVStore
// already uses for its own single-file log: on Open, the WAL is
// replayed into the table in full, so a crash between the WAL write
// and the table write never loses data, and replaying an
// already-applied entry is harmless because it just overwrites the
// same row key with the same bytes.
type GraphStore struct {
	schema *schema.Schema
	codec  *codec.ElemCodec
	raw    Store
}

// OpenGraphStore opens (creating if absent) a GraphStore rooted at
// cfg.DataDir. It builds on the same StoreImpl engine (write-ahead log
// replayed into an ordered backing table) used by any other raw
// byte-keyed Store, adding the element codec on top.
func OpenGraphStore(s *schema.Schema, cfg GraphStoreConfig) (*GraphStore, error) {
	layout := cfg.Layout
	if layout == nil {
		layout = codec.ByteOrderedLayout{}
	}

	raw, err := newStoreImpl(cfg.DataDir, cfg.FsyncInterval)
	if err != nil {
		return nil, fmt.Errorf("graph store: open: %w", err)
	}

	return &GraphStore{
		schema: s,
		codec:  codec.NewElemCodec(s, layout, cfg.Clock),
		raw:    raw,
	}, nil
}

// Put encodes elem and writes its resulting record(s) — one for an
// entity, one or two for an edge, depending on whether it's a
// self-edge — durably to the log and then to the backing table.
func (gs *GraphStore) Put(elem element.Element) error {
	switch e := elem.(type) {
	case element.Entity:
		rec, err := gs.codec.EncodeEntity(e)
		if err != nil {
			return err
		}
		return gs.storeRecord(rec)
	case element.Edge:
		primary, reverse, err := gs.codec.EncodeEdge(e)
		if err != nil {
			return err
		}
		if err := gs.storeRecord(primary); err != nil {
			return err
		}
		if reverse != nil {
			return gs.storeRecord(*reverse)
		}
		return nil
	default:
		return fmt.Errorf("graph store: Put: unsupported element type %T", elem)
	}
}

func (gs *GraphStore) storeRecord(rec codec.ElementRecord) error {
	return gs.raw.Put(rec.RowKey, encodeEnvelope(rec))
}

// GetEntity fetches the entity of the given group keyed by vertex. It
// returns ErrKeyNotFound if no such entity was ever written.
func (gs *GraphStore) GetEntity(group string, vertex any) (element.Entity, error) {
	probe, err := gs.codec.EncodeEntity(element.Entity{Group: group, Vertex: vertex})
	if err != nil {
		return element.Entity{}, err
	}
	rec, err := gs.fetchRecord(probe.RowKey)
	if err != nil {
		return element.Entity{}, err
	}
	elem, err := gs.codec.Decode(rec, codec.DecodeOptions{})
	if err != nil {
		return element.Entity{}, err
	}
	entity, ok := elem.(element.Entity)
	if !ok {
		return element.Entity{}, fmt.Errorf("graph store: row at this key decodes to %T, not an entity", elem)
	}
	return entity, nil
}

// GetEdge fetches the edge of the given group between source and
// destination, as it was stored on the primary (source-first) side of
// EncodeEdge. It returns ErrKeyNotFound if no such edge was ever
// written with these exact endpoints, in this order.
func (gs *GraphStore) GetEdge(group string, source, destination any, directed bool) (element.Edge, error) {
	probe, _, err := gs.codec.EncodeEdge(element.Edge{Group: group, Source: source, Destination: destination, Directed: directed})
	if err != nil {
		return element.Edge{}, err
	}
	rec, err := gs.fetchRecord(probe.RowKey)
	if err != nil {
		return element.Edge{}, err
	}
	elem, err := gs.codec.Decode(rec, codec.DecodeOptions{})
	if err != nil {
		return element.Edge{}, err
	}
	edge, ok := elem.(element.Edge)
	if !ok {
		return element.Edge{}, fmt.Errorf("graph store: row at this key decodes to %T, not an edge", elem)
	}
	return edge, nil
}

// EdgesFrom returns every edge of the given group whose keying
// endpoint (the primary or reverse record's first segment) equals
// vertex, by scanning the backing table's contiguous byte range for
// that endpoint. ByteOrderedLayout keeps this a genuine prefix scan;
// HashPrefixedLayout cannot support it (the hash prefix scrambles the
// ordering), so under any other layout it returns an error.
func (gs *GraphStore) EdgesFrom(group string, vertex any) ([]element.Edge, error) {
	if _, ok := gs.codec.Layout.(codec.ByteOrderedLayout); !ok {
		return nil, fmt.Errorf("graph store: EdgesFrom requires ByteOrderedLayout, got %T", gs.codec.Layout)
	}

	def := gs.schema.Element(group)
	if def == nil {
		return nil, fmt.Errorf("graph store: unknown group %q", group)
	}
	vertexBytes, err := gs.schema.VertexSerialiser.Serialise(vertex)
	if err != nil {
		return nil, err
	}
	prefix := append(escape.Escape(vertexBytes), escape.Delimiter)

	var edges []element.Edge
	err = gs.raw.ScanPrefix(prefix, func(key, value []byte) (bool, error) {
		rec, err := decodeEnvelope(key, value)
		if err != nil {
			return false, err
		}
		if string(rec.ColumnFamily) != group {
			return true, nil
		}
		elem, err := gs.codec.Decode(rec, codec.DecodeOptions{})
		if err != nil {
			return false, err
		}
		if edge, ok := elem.(element.Edge); ok {
			edges = append(edges, edge)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// DeleteEntity removes the entity of the given group keyed by vertex.
// Deleting an entity that was never written is not an error.
func (gs *GraphStore) DeleteEntity(group string, vertex any) error {
	probe, err := gs.codec.EncodeEntity(element.Entity{Group: group, Vertex: vertex})
	if err != nil {
		return err
	}
	return gs.raw.Delete(probe.RowKey)
}

// DeleteEdge removes the edge of the given group between source and
// destination, on both the primary and (for an undirected edge) the
// reverse row.
func (gs *GraphStore) DeleteEdge(group string, source, destination any, directed bool) error {
	primary, reverse, err := gs.codec.EncodeEdge(element.Edge{Group: group, Source: source, Destination: destination, Directed: directed})
	if err != nil {
		return err
	}
	if err := gs.raw.Delete(primary.RowKey); err != nil {
		return err
	}
	if reverse != nil {
		return gs.raw.Delete(reverse.RowKey)
	}
	return nil
}

// IndexableProperties returns elem's property map together with the
// primary row key Put would store it under. A query engine uses this
// to build a secondary index entry without duplicating the codec's
// encoding logic.
func (gs *GraphStore) IndexableProperties(elem element.Element) (element.Properties, []byte, error) {
	switch e := elem.(type) {
	case element.Entity:
		rec, err := gs.codec.EncodeEntity(e)
		if err != nil {
			return nil, nil, err
		}
		return e.Properties, rec.RowKey, nil
	case element.Edge:
		primary, _, err := gs.codec.EncodeEdge(e)
		if err != nil {
			return nil, nil, err
		}
		return e.Properties, primary.RowKey, nil
	default:
		return nil, nil, fmt.Errorf("graph store: IndexableProperties: unsupported element type %T", elem)
	}
}

// GetByRowKey fetches and decodes the element stored at an exact row
// key, the same bytes IndexableProperties and EdgesFrom deal in.
func (gs *GraphStore) GetByRowKey(rowKey []byte) (element.Element, error) {
	rec, err := gs.fetchRecord(rowKey)
	if err != nil {
		return nil, err
	}
	return gs.codec.Decode(rec, codec.DecodeOptions{})
}

func (gs *GraphStore) fetchRecord(rowKey []byte) (codec.ElementRecord, error) {
	blob, err := gs.raw.Get(rowKey)
	if err != nil {
		return codec.ElementRecord{}, err
	}
	return decodeEnvelope(rowKey, blob)
}

// Schema returns the schema this GraphStore was opened with, so
// callers (the REST API's property coercion, diagnostics tooling) can
// inspect per-group property types without duplicating the codec's
// own copy of it.
func (gs *GraphStore) Schema() *schema.Schema {
	return gs.schema
}

// Explain reports diagnostics about the underlying backing table,
// exactly as Store.Explain does for a raw byte-keyed store.
func (gs *GraphStore) Explain(ctx context.Context, opts ExplainOptions) (*ExplainResult, error) {
	return gs.raw.Explain(ctx, opts)
}

// Close closes the underlying store.
func (gs *GraphStore) Close() error {
	return gs.raw.Close()
}
