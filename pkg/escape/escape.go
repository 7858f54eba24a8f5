// Package escape implements the byte-escaping discipline that keeps
// delimited row-key segments free of the reserved delimiter byte while
// preserving lexicographic order.
//
// Delimiter is 0x00, escape byte is 0x01. 0x00 becomes 0x01 0x01 and
// 0x01 becomes 0x01 0x02; every other byte passes through unchanged.
// Because 0x01 0x01 < 0x01 0x02 and both sort after any byte strictly
// less than 0x01, and before any byte strictly greater than 0x01, the
// substitution preserves order.
package escape

import "fmt"

const (
	// Delimiter is the reserved byte that separates segments of a
	// composite row key.
	Delimiter byte = 0x00
	escByte   byte = 0x01
	escSelf   byte = 0x01 // 0x01 0x01 encodes a literal Delimiter
	escEsc    byte = 0x02 // 0x01 0x02 encodes a literal escByte
)

// Escape returns a copy of b with every occurrence of Delimiter and
// escByte substituted so the result never contains an unescaped
// Delimiter.
func Escape(b []byte) []byte {
	n := 0
	for _, c := range b {
		if c == Delimiter || c == escByte {
			n++
		}
	}
	if n == 0 {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}

	out := make([]byte, 0, len(b)+n)
	for _, c := range b {
		switch c {
		case Delimiter:
			out = append(out, escByte, escSelf)
		case escByte:
			out = append(out, escByte, escEsc)
		default:
			out = append(out, c)
		}
	}
	return out
}

// Unescape inverts Escape. It returns an error if b contains a
// malformed escape sequence (an escByte not followed by escSelf or
// escEsc, including a trailing escByte with nothing after it).
func Unescape(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c != escByte {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(b) {
			return nil, fmt.Errorf("escape: dangling escape byte at end of input")
		}
		switch b[i] {
		case escSelf:
			out = append(out, Delimiter)
		case escEsc:
			out = append(out, escByte)
		default:
			return nil, fmt.Errorf("escape: invalid escape sequence 0x%02x 0x%02x at offset %d", escByte, b[i], i-1)
		}
	}
	return out, nil
}

// Split splits row on unescaped Delimiter bytes and unescapes each
// resulting segment. It is the inverse of joining Escape(segments...)
// with Delimiter.
func Split(row []byte) ([][]byte, error) {
	var segments [][]byte
	start := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case escByte:
			// Skip the byte this escape sequence protects so we never
			// mistake it for an unescaped delimiter.
			i++
			if i >= len(row) {
				return nil, fmt.Errorf("escape: dangling escape byte while splitting row key")
			}
		case Delimiter:
			seg, err := Unescape(row[start:i])
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			start = i + 1
		}
	}
	seg, err := Unescape(row[start:])
	if err != nil {
		return nil, err
	}
	segments = append(segments, seg)
	return segments, nil
}

// Join concatenates escaped segments with unescaped Delimiter bytes
// between them, matching the layout Split expects.
func Join(segments ...[]byte) []byte {
	size := 0
	for _, s := range segments {
		size += len(s) + 1
	}
	if size > 0 {
		size--
	}
	out := make([]byte, 0, size)
	for i, s := range segments {
		if i > 0 {
			out = append(out, Delimiter)
		}
		out = append(out, Escape(s)...)
	}
	return out
}
