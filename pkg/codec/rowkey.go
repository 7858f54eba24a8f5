package codec

import (
	"github.com/cespare/xxhash/v2"

	"github.com/vertexkv/vertexkv/pkg/escape"
)

// edgeFlag packs which endpoint a row key is keyed by (primary,
// source-first, or reverse, destination-first) together with the
// edge's directedness into a single byte.
type edgeFlag byte

const (
	flagUndirectedPrimary edgeFlag = iota
	flagUndirectedReverse
	flagDirectedPrimary
	flagDirectedReverse
)

func (f edgeFlag) directed() bool {
	return f == flagDirectedPrimary || f == flagDirectedReverse
}

func (f edgeFlag) reverse() bool {
	return f == flagUndirectedReverse || f == flagDirectedReverse
}

func edgeFlagFor(directed, isReverse bool) edgeFlag {
	switch {
	case directed && isReverse:
		return flagDirectedReverse
	case directed:
		return flagDirectedPrimary
	case isReverse:
		return flagUndirectedReverse
	default:
		return flagUndirectedPrimary
	}
}

// RowKeyLayout builds and parses edge row keys. Two implementations
// ship: ByteOrderedLayout, which keeps row keys fully order-preserving
// on the keying endpoint, and HashPrefixedLayout, which sacrifices
// that ordering for a flatter key distribution across a range-sharded
// store.
type RowKeyLayout interface {
	// BuildEdgeRow returns the row key for a single endpoint-ordered
	// representation of an edge: a=the keying endpoint's serialised
	// (not yet escaped) bytes, b=the other endpoint's, flag=direction/
	// ordering. Escaping happens internally so a vertex value
	// containing the delimiter or escape byte is framed exactly once.
	BuildEdgeRow(a, b []byte, flag edgeFlag) []byte

	// ParseEdgeRow inverts BuildEdgeRow, returning the two endpoint
	// byte strings already unescaped and the flag.
	ParseEdgeRow(row []byte) (a, b []byte, flag edgeFlag, err error)
}

// ByteOrderedLayout lays out edge rows as
// escape(a) ∥ D ∥ escape(b) ∥ D ∥ flag, with no additional prefix, so
// a range scan over rows keyed by one endpoint is a contiguous byte
// range.
type ByteOrderedLayout struct{}

func (ByteOrderedLayout) BuildEdgeRow(a, b []byte, flag edgeFlag) []byte {
	return escape.Join(a, b, []byte{byte(flag)})
}

func (ByteOrderedLayout) ParseEdgeRow(row []byte) (a, b []byte, flag edgeFlag, err error) {
	return parseThreeSegmentRow(row)
}

// HashPrefixedLayout prepends a fixed-width stable hash of the keying
// endpoint ahead of the byte-ordered layout, trading the ability to
// range-scan by endpoint value for a row-key distribution that avoids
// hot-spotting a monotonically increasing or clustered vertex domain
// across a small number of store partitions.
type HashPrefixedLayout struct{}

const hashPrefixWidth = 8

func (HashPrefixedLayout) BuildEdgeRow(a, b []byte, flag edgeFlag) []byte {
	h := xxhash.Sum64(a)
	prefix := make([]byte, hashPrefixWidth)
	for i := 0; i < hashPrefixWidth; i++ {
		prefix[hashPrefixWidth-1-i] = byte(h >> (8 * i))
	}
	return escape.Join(prefix, a, b, []byte{byte(flag)})
}

func (HashPrefixedLayout) ParseEdgeRow(row []byte) (a, b []byte, flag edgeFlag, err error) {
	segments, err := escape.Split(row)
	if err != nil {
		return nil, nil, 0, corruptRecord("hash-prefixed edge row", err)
	}
	if len(segments) != 4 {
		return nil, nil, 0, corruptRecord("hash-prefixed edge row: expected 4 segments", errUnexpectedSegmentCount)
	}
	return segmentsToAB(segments[1], segments[2], segments[3])
}

func parseThreeSegmentRow(row []byte) (a, b []byte, flag edgeFlag, err error) {
	segments, err := escape.Split(row)
	if err != nil {
		return nil, nil, 0, corruptRecord("edge row", err)
	}
	if len(segments) != 3 {
		return nil, nil, 0, corruptRecord("edge row: expected 3 segments", errUnexpectedSegmentCount)
	}
	return segmentsToAB(segments[0], segments[1], segments[2])
}

func segmentsToAB(a, b, flagSeg []byte) ([]byte, []byte, edgeFlag, error) {
	if len(flagSeg) != 1 {
		return nil, nil, 0, corruptRecord("edge row: flags segment", errInvalidFlagsByte)
	}
	flag := edgeFlag(flagSeg[0])
	if flag > flagDirectedReverse {
		return nil, nil, 0, corruptRecord("edge row: flags segment", errInvalidFlagsByte)
	}
	return a, b, flag, nil
}

var (
	errUnexpectedSegmentCount = rowKeyError("row split produced an unexpected number of segments")
	errInvalidFlagsByte       = rowKeyError("invalid flags byte")
)

type rowKeyError string

func (e rowKeyError) Error() string { return string(e) }
