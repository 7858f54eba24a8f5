package varframe

import (
	"math"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 2, 0x7e, 0x7f, 0x80, 0xff, 0x100, 0xffff, 0x10000,
		0x1234567, math.MaxUint32, math.MaxUint32 + 1, math.MaxInt64,
		math.MaxUint64,
	}

	for _, v := range values {
		buf := Write(v, nil)
		got, n, err := Read(buf, 0)
		if err != nil {
			t.Fatalf("Read(%d) failed: %v", v, err)
		}
		if got != v {
			t.Errorf("Write/Read round-trip: got %d, want %d", got, v)
		}
		if n != len(buf) {
			t.Errorf("advance %d != frame length %d for value %d", n, len(buf), v)
		}
	}
}

func TestSizeIsPureFunctionOfFirstByte(t *testing.T) {
	for _, v := range []uint64{0, 0x7f, 0x80, 0xffff, math.MaxUint64} {
		buf := Write(v, nil)
		if got := Size(buf[0]); got != len(buf) {
			t.Errorf("Size(first byte of %d) = %d, want %d", v, got, len(buf))
		}
	}
}

func TestSingleByteRange(t *testing.T) {
	for v := uint64(0); v <= singleByteMax; v++ {
		buf := Write(v, nil)
		if len(buf) != 1 {
			t.Fatalf("value %d should fit in a single byte, got %d bytes", v, len(buf))
		}
		if buf[0]&markerBit != 0 {
			t.Fatalf("single-byte value %d has marker bit set", v)
		}
	}
}

func TestWriteAppendsToExistingBuffer(t *testing.T) {
	buf := []byte("prefix:")
	buf = Write(42, buf)
	if string(buf[:7]) != "prefix:" {
		t.Fatalf("Write clobbered existing buffer contents: %q", buf)
	}
}

func TestAppendLen(t *testing.T) {
	data := []byte("hello")
	buf := AppendLen(data, nil)
	length, n, err := Read(buf, 0)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if length != uint64(len(data)) {
		t.Fatalf("decoded length %d != %d", length, len(data))
	}
	if string(buf[n:]) != string(data) {
		t.Fatalf("payload mismatch: got %q want %q", buf[n:], data)
	}
}

func TestReadErrorsOnTruncatedFrame(t *testing.T) {
	buf := Write(0x1234567, nil)
	for n := 0; n < len(buf); n++ {
		if _, _, err := Read(buf[:n], 0); err == nil {
			t.Fatalf("Read(buf[:%d]) should have failed on truncated frame", n)
		}
	}
}

func TestReadErrorsOnOutOfBoundsPosition(t *testing.T) {
	if _, _, err := Read([]byte{0x01}, 5); err == nil {
		t.Fatalf("expected error reading past end of buffer")
	}
	if _, _, err := Read(nil, 0); err == nil {
		t.Fatalf("expected error reading from empty buffer")
	}
}

func TestMultipleFramesConcatenate(t *testing.T) {
	var buf []byte
	buf = AppendLen([]byte("abc"), buf)
	buf = AppendLen([]byte{}, buf)
	buf = AppendLen([]byte("defgh"), buf)

	pos := 0
	wantLens := []int{3, 0, 5}
	wantData := []string{"abc", "", "defgh"}
	for i, want := range wantLens {
		length, n, err := Read(buf, pos)
		if err != nil {
			t.Fatalf("Read at frame %d failed: %v", i, err)
		}
		if int(length) != want {
			t.Errorf("frame %d length = %d, want %d", i, length, want)
		}
		pos += n
		got := string(buf[pos : pos+int(length)])
		if got != wantData[i] {
			t.Errorf("frame %d data = %q, want %q", i, got, wantData[i])
		}
		pos += int(length)
	}
	if pos != len(buf) {
		t.Errorf("did not consume entire buffer: pos=%d len=%d", pos, len(buf))
	}
}
