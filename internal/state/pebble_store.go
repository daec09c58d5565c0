package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// PebbleStore implements Store using PebbleDB.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens a scratch bucket store in dir. Buckets only live for
// one run, so the WAL is off; Close removes nothing, callers own dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{
		MemTableSize:          64 << 20,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 8,
		DisableWAL:            true,
	}
	d, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

// OpenScratch creates a temporary directory under parent (os.TempDir when
// empty) and opens a PebbleStore in it. The returned cleanup closes the store
// and removes the directory.
func OpenScratch(parent string) (*PebbleStore, func() error, error) {
	dir, err := os.MkdirTemp(parent, "dtrecon-buckets-")
	if err != nil {
		return nil, nil, fmt.Errorf("scratch dir: %w", err)
	}
	ps, err := NewPebbleStore(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, nil, err
	}
	cleanup := func() error {
		cerr := ps.Close()
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove scratch dir: %w", err)
		}
		return cerr
	}
	return ps, cleanup, nil
}

func encodePebbleState(st RecordState) ([]byte, error) { return json.Marshal(st) }
func decodePebbleState(val []byte) (RecordState, error) {
	var st RecordState
	if err := json.Unmarshal(val, &st); err != nil {
		return RecordState{}, err
	}
	return st, nil
}

func (p *PebbleStore) Apply(key string, deltaMinutes float64, seq int64) (bool, RecordState, error) {
	k := []byte(key)
	var cur RecordState
	v, closer, err := p.db.Get(k)
	if err == nil {
		cur, err = decodePebbleState(v)
		_ = closer.Close()
		if err != nil {
			return false, RecordState{}, err
		}
	} else if err != pebble.ErrNotFound {
		return false, RecordState{}, err
	}
	if seq <= cur.LastSeq {
		return false, cur, nil
	}
	cur.SumMinutes += deltaMinutes
	cur.Events++
	cur.LastSeq = seq
	bytes, err := encodePebbleState(cur)
	if err != nil {
		return false, RecordState{}, err
	}
	if err := p.db.Set(k, bytes, pebble.NoSync); err != nil {
		return false, RecordState{}, err
	}
	return true, cur, nil
}

func (p *PebbleStore) Get(key string) (RecordState, bool) {
	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		return RecordState{}, false
	}
	defer closer.Close()
	st, e := decodePebbleState(v)
	if e != nil {
		return RecordState{}, false
	}
	return st, true
}

func (p *PebbleStore) Range(fn func(key string, st RecordState) error) error {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		k := append([]byte(nil), it.Key()...)
		v := append([]byte(nil), it.Value()...)
		st, err := decodePebbleState(v)
		if err != nil {
			return err
		}
		if err := fn(string(k), st); err != nil {
			return err
		}
	}
	return nil
}
