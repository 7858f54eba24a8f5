package store

import (
	"encoding/binary"
	"fmt"

	"github.com/vertexkv/vertexkv/pkg/codec"
	"github.com/vertexkv/vertexkv/pkg/varframe"
)

// envelope flattens the five non-row-key slots of a codec.ElementRecord
// (column family, column qualifier, visibility, timestamp, value) into
// a single blob so a GraphStore can store them as one value keyed by
// the row key, in both the write-ahead log and the backing table. The
// row key itself is never duplicated into the envelope; it's recovered
// from whichever key the blob was stored under.
//
// Layout: VarFrame(len)+bytes for ColumnFamily, ColumnQualifier, and
// Visibility in turn, an 8-byte big-endian Timestamp, then the
// remaining bytes verbatim as Value (it never needs a length prefix
// since it always runs to the end of the blob).
func encodeEnvelope(rec codec.ElementRecord) []byte {
	buf := make([]byte, 0, len(rec.ColumnFamily)+len(rec.ColumnQualifier)+len(rec.Visibility)+len(rec.Value)+16)
	buf = varframe.AppendLen(rec.ColumnFamily, buf)
	buf = varframe.AppendLen(rec.ColumnQualifier, buf)
	buf = varframe.AppendLen(rec.Visibility, buf)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(rec.Timestamp))
	buf = append(buf, ts[:]...)
	buf = append(buf, rec.Value...)
	return buf
}

// decodeEnvelope reverses encodeEnvelope, reattaching rowKey to produce
// a complete codec.ElementRecord.
func decodeEnvelope(rowKey, blob []byte) (codec.ElementRecord, error) {
	pos := 0
	cf, n, err := readFramedField(blob, pos)
	if err != nil {
		return codec.ElementRecord{}, fmt.Errorf("envelope: column family: %w", err)
	}
	pos += n

	cq, n, err := readFramedField(blob, pos)
	if err != nil {
		return codec.ElementRecord{}, fmt.Errorf("envelope: column qualifier: %w", err)
	}
	pos += n

	vis, n, err := readFramedField(blob, pos)
	if err != nil {
		return codec.ElementRecord{}, fmt.Errorf("envelope: visibility: %w", err)
	}
	pos += n

	if pos+8 > len(blob) {
		return codec.ElementRecord{}, fmt.Errorf("envelope: timestamp runs past end of blob (len %d at %d)", len(blob), pos)
	}
	ts := int64(binary.BigEndian.Uint64(blob[pos : pos+8]))
	pos += 8

	value := blob[pos:]

	return codec.ElementRecord{
		RowKey:          rowKey,
		ColumnFamily:    cf,
		ColumnQualifier: cq,
		Visibility:      vis,
		Timestamp:       ts,
		Value:           value,
	}, nil
}

func readFramedField(buf []byte, pos int) (field []byte, advance int, err error) {
	if pos >= len(buf) {
		return nil, 0, fmt.Errorf("length prefix at %d out of bounds (len %d)", pos, len(buf))
	}
	length, lenAdvance, err := varframe.Read(buf, pos)
	if err != nil {
		return nil, 0, err
	}
	start := pos + lenAdvance
	end := start + int(length)
	if end > len(buf) {
		return nil, 0, fmt.Errorf("field of %d bytes at %d exceeds buffer of length %d", length, start, len(buf))
	}
	return buf[start:end], end - pos, nil
}
