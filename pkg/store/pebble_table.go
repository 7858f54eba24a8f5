package store

import (
	"bytes"

	"github.com/cockroachdb/pebble"
)

// PebbleTable is the ordered, lexicographically-keyed backing table a
// GraphStore persists ElementRecords into. It is a thin wrapper over
// *pebble.DB keyed by arbitrary row-key bytes, generalizing the
// ksuid-only DefaultStorage this package started from to accept any
// byte string the element codec produces.
type PebbleTable struct {
	db *pebble.DB
}

// OpenPebbleTable opens (creating if absent) a pebble-backed table at
// path.
func OpenPebbleTable(path string) (*PebbleTable, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleTable{db: db}, nil
}

// Set writes key/value durably. Pebble's own WAL makes this crash-safe
// on its own; GraphStore additionally mirrors the write to its own WAL
// so the change stream can be replayed independently of this table's
// files.
func (t *PebbleTable) Set(key, value []byte) error {
	return t.db.Set(key, value, pebble.Sync)
}

// Get returns the value stored at key, or ErrKeyNotFound.
func (t *PebbleTable) Get(key []byte) ([]byte, error) {
	data, closer, err := t.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, closer.Close()
}

// Delete removes key. Deleting an absent key is not an error.
func (t *PebbleTable) Delete(key []byte) error {
	return t.db.Delete(key, pebble.Sync)
}

// Count returns the number of live keys under prefix (empty prefix
// counts the whole table). Intended for diagnostics; it pays for a
// full scan.
func (t *PebbleTable) Count(prefix []byte) (int, error) {
	n := 0
	err := t.ScanPrefix(prefix, func(key, value []byte) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}

// ScanPrefix calls fn for every key/value pair whose key starts with
// prefix, in ascending key order, until fn returns false or an error.
// A nil or empty prefix scans the entire table.
func (t *PebbleTable) ScanPrefix(prefix []byte, fn func(key, value []byte) (bool, error)) error {
	upperBound := prefixUpperBound(prefix)
	iter, err := t.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := append([]byte{}, iter.Key()...)
		value := append([]byte{}, iter.Value()...)
		cont, err := fn(key, value)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return iter.Close()
}

// prefixUpperBound returns the smallest byte string that sorts after
// every string with the given prefix, or nil if prefix is empty (no
// upper bound needed) or is all 0xff bytes (no finite successor; the
// scan runs to the end of the keyspace instead).
func prefixUpperBound(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	upper := bytes.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// Close flushes and closes the underlying pebble database.
func (t *PebbleTable) Close() error {
	return t.db.Close()
}
