// Package codec holds two independent binary formats.
//
// RecordCodec frames a raw key/value pair for the write-ahead log:
//
//	[CRC32(4)][KeySize(4)][ValueSize(4)][Timestamp(8)][Key][Value]
//
// It knows nothing about graph elements or schemas; it's the
// lowest-level durability primitive the store's log writer and reader
// build on.
//
// ElemCodec sits above the schema and graph model: it turns an Entity
// or Edge into one or two ElementRecords — (row_key, column_family,
// column_qualifier, visibility, timestamp, value) — and back, via four
// composed stages:
//
//	VarFrame → Esc → PropCodec → ElemCodec
//
// VarFrame (see pkg/varframe) frames variable-length fields with a
// compact self-delimiting length prefix. Esc (see pkg/escape) escapes
// row-key segments so a reserved delimiter byte can separate them
// unambiguously while preserving lexicographic order. PropCodec
// serializes a schema-ordered property list as a concatenation of
// VarFrame-prefixed values. ElemCodec composes all three with a
// Schema and a RowKeyLayout strategy to decide which property goes in
// which physical slot, how an edge's two endpoints are laid out in
// its row key, and how self-edges and directionality round-trip.
//
// The two codecs never call into each other; a GraphStore uses
// ElemCodec to turn elements into records for its backing table and
// RecordCodec to frame those same records' bytes for the log.
package codec
