// Package boltstore persists rows in a single bbolt bucket, ordered by key. Cells are stored
// msgpack encoded.
package boltstore

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
	"time"
)

const (
	defaultBucket    = "rows"
	defaultBatchSize = 256
)

var (
	ErrInvalidConfiguration = errors.New("boltstore: invalid configuration")
	ErrClosed               = errors.New("boltstore: scanner closed")
)

type Config struct {
	Path string
	// Bucket defaults to "rows".
	Bucket string
	// BatchSize is the number of rows a scan reads per read transaction.
	BatchSize int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, fmt.Errorf("%w: path cannot be empty", ErrInvalidConfiguration))
	}
	if c.BatchSize < 0 {
		errGrp = append(errGrp, fmt.Errorf("%w: batch size cannot be negative", ErrInvalidConfiguration))
	}
	return errors.Join(errGrp...)
}

type Store struct {
	db        *bolt.DB
	bucket    []byte
	batchSize int
}

// New opens or creates the database file at cfg.Path.
func New(cfg *Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		bucket:    []byte(cfg.Bucket),
		batchSize: cfg.BatchSize,
	}
	if len(s.bucket) == 0 {
		s.bucket = []byte(defaultBucket)
	}
	if s.batchSize == 0 {
		s.batchSize = defaultBatchSize
	}

	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", cfg.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}

	s.db = db
	log.Debug().Str("path", cfg.Path).Msg("row store opened")
	return s, nil
}

// Put writes row, replacing the row stored under the same key.
func (s *Store) Put(row *litetable.Row) error {
	value, err := msgpack.Marshal(row.Cells)
	if err != nil {
		return fmt.Errorf("encode %q: %w", row.Key, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(row.Key, value)
	})
}

// DeleteRange deletes the rows in [firstInclusive, lastInclusive] except the row stored under
// except. Rows are deleted in ascending key order in a single transaction.
func (s *Store) DeleteRange(firstInclusive, lastInclusive, except []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)

		// deleting while iterating skips keys in bbolt, so collect first
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek(firstInclusive); k != nil && bytes.Compare(k, lastInclusive) <= 0; k, _ = c.Next() {
			if bytes.Equal(k, except) {
				continue
			}
			keys = append(keys, bytes.Clone(k))
		}

		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("delete %q: %w", k, err)
			}
		}
		return nil
	})
}

// Len returns the number of stored rows.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Scan returns the rows in [start, stop) in key order. A nil bound is open.
//
// Rows are read in batches, each batch in its own read transaction, so the store can be
// written to while a scan is open. A row written behind the scan position is not seen.
func (s *Store) Scan(start, stop []byte) (*Scanner, error) {
	return &Scanner{
		store: s,
		next:  bytes.Clone(start),
		stop:  bytes.Clone(stop),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type Scanner struct {
	store *Store
	// next is the smallest key of the following batch
	next []byte
	stop []byte

	batch  []*litetable.Row
	done   bool
	closed bool
}

// Next returns the next row, or nil at the end of the scan.
func (sc *Scanner) Next() (*litetable.Row, error) {
	if sc.closed {
		return nil, ErrClosed
	}
	if len(sc.batch) == 0 && !sc.done {
		if err := sc.load(); err != nil {
			return nil, err
		}
	}
	if len(sc.batch) == 0 {
		return nil, nil
	}

	r := sc.batch[0]
	sc.batch = sc.batch[1:]
	return r, nil
}

func (sc *Scanner) load() error {
	return sc.store.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(sc.store.bucket).Cursor()

		var k, v []byte
		if sc.next == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(sc.next)
		}

		for ; k != nil; k, v = c.Next() {
			if sc.stop != nil && bytes.Compare(k, sc.stop) >= 0 {
				sc.done = true
				return nil
			}
			if len(sc.batch) == sc.store.batchSize {
				sc.next = bytes.Clone(k)
				return nil
			}

			var cells []litetable.Cell
			if err := msgpack.Unmarshal(v, &cells); err != nil {
				return fmt.Errorf("decode %q: %w", k, err)
			}
			sc.batch = append(sc.batch, &litetable.Row{Key: bytes.Clone(k), Cells: cells})
		}

		sc.done = true
		return nil
	})
}

func (sc *Scanner) Close() error {
	sc.closed = true
	sc.batch = nil
	return nil
}
