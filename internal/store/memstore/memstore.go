// Package memstore is an in-memory sorted row store backed by a concurrent skip list.
package memstore

import (
	"bytes"
	"errors"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/zhangyunhao116/skipmap"
	"sync/atomic"
)

var ErrClosed = errors.New("memstore: store closed")

type rows = skipmap.FuncMap[[]byte, *litetable.Row]

// Store keeps rows ordered by key. It is safe for concurrent use.
type Store struct {
	rows   *rows
	closed atomic.Bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		rows: skipmap.NewFunc[[]byte, *litetable.Row](func(a, b []byte) bool {
			return bytes.Compare(a, b) < 0
		}),
	}
}

// Put stores a copy of row, replacing the row with the same key.
func (s *Store) Put(row *litetable.Row) error {
	if s.closed.Load() {
		return ErrClosed
	}
	r := row.Clone()
	s.rows.Store(r.Key, r)
	return nil
}

// DeleteRange deletes the rows in [firstInclusive, lastInclusive] in ascending order, keeping
// the row stored under except.
func (s *Store) DeleteRange(firstInclusive, lastInclusive, except []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	var keys [][]byte
	s.rows.Range(func(k []byte, _ *litetable.Row) bool {
		if bytes.Compare(k, firstInclusive) < 0 {
			return true
		}
		if bytes.Compare(k, lastInclusive) > 0 {
			return false
		}
		if !bytes.Equal(k, except) {
			keys = append(keys, k)
		}
		return true
	})

	for _, k := range keys {
		s.rows.Delete(k)
	}
	return nil
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	return s.rows.Len()
}

// Scan returns the rows in [start, stop) in key order. A nil bound is open. The scan works on
// a snapshot of the range taken when it is opened, so later writes do not affect it.
func (s *Store) Scan(start, stop []byte) (*Scanner, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var snapshot []*litetable.Row
	s.rows.Range(func(k []byte, r *litetable.Row) bool {
		if start != nil && bytes.Compare(k, start) < 0 {
			return true
		}
		if stop != nil && bytes.Compare(k, stop) >= 0 {
			return false
		}
		snapshot = append(snapshot, r.Clone())
		return true
	})

	return &Scanner{rows: snapshot}, nil
}

// Close releases the store; later calls fail with ErrClosed.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

// Scanner iterates a snapshot of rows.
type Scanner struct {
	rows   []*litetable.Row
	pos    int
	closed bool
}

// Next returns the next row, or nil at the end of the scan.
func (sc *Scanner) Next() (*litetable.Row, error) {
	if sc.closed {
		return nil, ErrClosed
	}
	if sc.pos >= len(sc.rows) {
		return nil, nil
	}
	r := sc.rows[sc.pos]
	sc.pos++
	return r, nil
}

func (sc *Scanner) Close() error {
	sc.closed = true
	sc.rows = nil
	return nil
}
