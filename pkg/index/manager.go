package index

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vertexkv/vertexkv/pkg/bptree"
	"github.com/vertexkv/vertexkv/pkg/escape"
	"github.com/vertexkv/vertexkv/pkg/serialiser"
	"github.com/vertexkv/vertexkv/pkg/varframe"
)

// Field value type tags, prefixed onto the ordered byte encoding so
// that a mixed-type field at least sorts its values by type before
// sorting within a type.
const (
	tagInt    byte = 0
	tagFloat  byte = 1
	tagString byte = 2
)

// SecondaryIndex maintains, for one property field, an ordered mapping
// from that field's value to the primary keys of every row carrying
// it. The composite key is escape.Join(orderedValueBytes, primaryKey):
// escaping keeps a primary key from being mistaken for part of the
// value, and the order-preserving serialisers (the same ones a Schema
// binds to vertex identities) mean the tree's natural key order is
// also the field's natural value order, so both exact-match and range
// queries are genuine tree range scans rather than full scans with a
// filter.
//
// The in-memory BPlusTree is the only copy of the index kept while a
// process runs; Save/Load persist it as a flat, sorted VarFrame-length
// run of key/value pairs (walking the tree's leaf-link chain, the
// purpose bptree.go's node.next field was added for) so restarting a
// process doesn't require replaying every insert.
type SecondaryIndex struct {
	fieldName string
	order     int
	tree      *bptree.BPlusTree[string, []byte]
	mutex     sync.RWMutex
}

// NewSecondaryIndex creates an empty secondary index for a field.
func NewSecondaryIndex(fieldName string, order int) *SecondaryIndex {
	return &SecondaryIndex{
		fieldName: fieldName,
		order:     order,
		tree:      bptree.NewBPlusTree[string, []byte](order),
	}
}

// Insert adds a record to the secondary index.
func (idx *SecondaryIndex) Insert(fieldValue interface{}, primaryKey []byte) error {
	key, err := idx.indexKey(fieldValue, primaryKey)
	if err != nil {
		return err
	}

	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	idx.tree.Insert(string(key), primaryKey)
	return nil
}

// Delete removes a record from the secondary index, reporting whether
// it was present.
func (idx *SecondaryIndex) Delete(fieldValue interface{}, primaryKey []byte) bool {
	key, err := idx.indexKey(fieldValue, primaryKey)
	if err != nil {
		return false
	}

	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	return idx.tree.Delete(string(key))
}

// Search returns the primary keys of every record whose value for
// this field equals fieldValue.
func (idx *SecondaryIndex) Search(fieldValue interface{}) ([][]byte, error) {
	lower, upper, err := idx.valueBounds(fieldValue)
	if err != nil {
		return nil, err
	}

	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var results [][]byte
	idx.tree.AscendRange(lower, upper, func(_ string, v []byte) bool {
		results = append(results, v)
		return true
	})
	return results, nil
}

// SearchRange returns the primary keys of every record whose value for
// this field falls in [startValue, endValue], inclusive on both ends.
func (idx *SecondaryIndex) SearchRange(startValue, endValue interface{}) ([][]byte, error) {
	lower, _, err := idx.valueBounds(startValue)
	if err != nil {
		return nil, err
	}
	_, upper, err := idx.valueBounds(endValue)
	if err != nil {
		return nil, err
	}

	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var results [][]byte
	idx.tree.AscendRange(lower, upper, func(_ string, v []byte) bool {
		results = append(results, v)
		return true
	})
	return results, nil
}

// SearchGreaterThan returns the primary keys of every record whose
// value for this field is greater than (or, if inclusive, greater than
// or equal to) fieldValue.
func (idx *SecondaryIndex) SearchGreaterThan(fieldValue interface{}, inclusive bool) ([][]byte, error) {
	lower, upper, err := idx.valueBounds(fieldValue)
	if err != nil {
		return nil, err
	}
	from := upper
	if inclusive {
		from = lower
	}

	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var results [][]byte
	idx.tree.AscendFrom(from, func(_ string, v []byte) bool {
		results = append(results, v)
		return true
	})
	return results, nil
}

// SearchLessThan returns the primary keys of every record whose value
// for this field is less than (or, if inclusive, less than or equal
// to) fieldValue.
func (idx *SecondaryIndex) SearchLessThan(fieldValue interface{}, inclusive bool) ([][]byte, error) {
	lower, upper, err := idx.valueBounds(fieldValue)
	if err != nil {
		return nil, err
	}
	to := lower
	if inclusive {
		to = upper
	}

	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var results [][]byte
	idx.tree.AscendBefore(to, func(_ string, v []byte) bool {
		results = append(results, v)
		return true
	})
	return results, nil
}

// Save persists the index to a single file in dir.
func (idx *SecondaryIndex) Save(dir string) error {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var buf []byte
	idx.tree.Ascend(func(k string, v []byte) bool {
		buf = varframe.AppendLen([]byte(k), buf)
		buf = varframe.AppendLen(v, buf)
		return true
	})

	filename := filepath.Join(dir, fmt.Sprintf("index_%s.dat", idx.fieldName))
	return os.WriteFile(filename, buf, 0o644)
}

// Load restores the index from the file Save wrote. A missing file is
// not an error: it just means the index was never saved, so Load
// leaves the tree empty.
func (idx *SecondaryIndex) Load(dir string) error {
	filename := filepath.Join(dir, fmt.Sprintf("index_%s.dat", idx.fieldName))
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("index: load field %s: %w", idx.fieldName, err)
	}

	tree := bptree.NewBPlusTree[string, []byte](idx.order)
	pos := 0
	for pos < len(data) {
		key, keyAdv, err := readFrame(data, pos)
		if err != nil {
			return fmt.Errorf("index: load field %s: %w", idx.fieldName, err)
		}
		pos += keyAdv
		value, valAdv, err := readFrame(data, pos)
		if err != nil {
			return fmt.Errorf("index: load field %s: %w", idx.fieldName, err)
		}
		pos += valAdv
		tree.Insert(string(key), value)
	}

	idx.mutex.Lock()
	idx.tree = tree
	idx.mutex.Unlock()
	return nil
}

func readFrame(buf []byte, pos int) ([]byte, int, error) {
	n, advance, err := varframe.Read(buf, pos)
	if err != nil {
		return nil, 0, err
	}
	start := pos + advance
	end := start + int(n)
	if end > len(buf) {
		return nil, 0, fmt.Errorf("varframe: field of %d bytes at %d exceeds buffer of length %d", n, start, len(buf))
	}
	return buf[start:end], advance + int(n), nil
}

// indexKey builds the full composite tree key for a (fieldValue,
// primaryKey) pair.
func (idx *SecondaryIndex) indexKey(fieldValue interface{}, primaryKey []byte) ([]byte, error) {
	valueBytes, err := orderedValueBytes(fieldValue)
	if err != nil {
		return nil, err
	}
	return escape.Join(valueBytes, primaryKey), nil
}

// valueBounds returns the [lower, upper) composite-key bounds covering
// every record whose value equals fieldValue exactly: lower is the
// value's escaped bytes alone (which always sorts before any key
// carrying that value, since every real key has a delimiter and a
// primary key appended), upper is the same bytes with an extra 0x01
// appended (which sorts after every such key, since an unescaped
// delimiter is always less than 0x01).
func (idx *SecondaryIndex) valueBounds(fieldValue interface{}) (lower, upper string, err error) {
	valueBytes, err := orderedValueBytes(fieldValue)
	if err != nil {
		return "", "", err
	}
	escaped := escape.Escape(valueBytes)
	lower = string(escaped)
	upper = string(append(append([]byte{}, escaped...), 0x01))
	return lower, upper, nil
}

// orderedValueBytes encodes fieldValue with an order-preserving
// serialiser and prepends a type tag, so that Search/SearchRange
// comparisons against the tree's string keys match the comparisons a
// human would expect for that value's type.
func orderedValueBytes(fieldValue interface{}) ([]byte, error) {
	switch v := fieldValue.(type) {
	case int32:
		b, err := serialiser.OrderedInt32Serialiser{}.Serialise(v)
		if err != nil {
			return nil, err
		}
		return append([]byte{tagInt}, b...), nil
	case int, int64:
		b, err := serialiser.OrderedInt64Serialiser{}.Serialise(v)
		if err != nil {
			return nil, err
		}
		return append([]byte{tagInt}, b...), nil
	case float32, float64:
		f, _ := toFloat64(v)
		return append([]byte{tagFloat}, orderedFloat64Bytes(f)...), nil
	case string:
		b, _ := serialiser.StringSerialiser{}.Serialise(v)
		return append([]byte{tagString}, b...), nil
	default:
		b, _ := serialiser.StringSerialiser{}.Serialise(fmt.Sprintf("%v", v))
		return append([]byte{tagString}, b...), nil
	}
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}

// orderedFloat64Bytes encodes f as 8 big-endian bytes whose unsigned
// byte-wise order matches float64 numeric order: positive numbers get
// their sign bit set, negative numbers are bitwise-inverted. This is
// the same sign-flip idea OrderedInt64Serialiser uses, extended to
// IEEE-754's sign-magnitude layout.
func orderedFloat64Bytes(f float64) []byte {
	bits := math.Float64bits(f)
	if f < 0 || (bits>>63) == 1 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = byte(bits)
		bits >>= 8
	}
	return out
}

// IndexManager owns every SecondaryIndex a store has built, keyed by
// field name.
type IndexManager struct {
	indexes map[string]*SecondaryIndex
	mutex   sync.RWMutex
	order   int
}

// NewIndexManager creates an empty index manager whose indexes use the
// given B+Tree branching order.
func NewIndexManager(order int) *IndexManager {
	return &IndexManager{
		indexes: make(map[string]*SecondaryIndex),
		order:   order,
	}
}

// GetOrCreateIndex returns the index for fieldName, creating it (with
// an empty tree) the first time it's asked for.
func (im *IndexManager) GetOrCreateIndex(fieldName string) *SecondaryIndex {
	im.mutex.Lock()
	defer im.mutex.Unlock()

	if idx, exists := im.indexes[fieldName]; exists {
		return idx
	}

	idx := NewSecondaryIndex(fieldName, im.order)
	im.indexes[fieldName] = idx
	return idx
}

// SaveAll writes every index to its own file in dir.
func (im *IndexManager) SaveAll(dir string) error {
	im.mutex.RLock()
	defer im.mutex.RUnlock()

	for _, idx := range im.indexes {
		if err := idx.Save(dir); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll reads back every "index_*.dat" file found in dir.
func (im *IndexManager) LoadAll(dir string) error {
	im.mutex.Lock()
	defer im.mutex.Unlock()

	pattern := filepath.Join(dir, "index_*.dat")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, file := range files {
		filename := filepath.Base(file)
		if !strings.HasPrefix(filename, "index_") || !strings.HasSuffix(filename, ".dat") {
			continue
		}
		fieldName := strings.TrimSuffix(strings.TrimPrefix(filename, "index_"), ".dat")
		if fieldName == "" {
			continue
		}

		idx := NewSecondaryIndex(fieldName, im.order)
		if err := idx.Load(dir); err != nil {
			return err
		}
		im.indexes[fieldName] = idx
	}

	return nil
}
