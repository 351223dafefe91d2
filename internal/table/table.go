// Package table is the read/write facade over a row store: updates are appended as delta rows
// and reads go through the merge scanner.
package table

import (
	"errors"
	"fmt"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/merge"
	"github.com/litetable/litetable-hut/internal/metrics"
	"github.com/litetable/litetable-hut/internal/rowkey"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidConfiguration = errors.New("invalid table configuration")
	ErrNotFound             = errors.New("row not found")
	ErrNoCells              = errors.New("append requires at least one cell")
)

// Store is a sorted row store the table can append to and scan.
type Store interface {
	merge.Store
	// Scan returns the rows in [start, stop). A nil bound is open.
	Scan(start, stop []byte) (merge.Source, error)
}

type scanStore[S merge.Source] interface {
	merge.Store
	Scan(start, stop []byte) (S, error)
}

type adapted[S merge.Source] struct {
	scanStore[S]
}

func (a adapted[S]) Scan(start, stop []byte) (merge.Source, error) {
	sc, err := a.scanStore.Scan(start, stop)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// Adapt turns a store whose scans return a concrete scanner type into a Store.
//
//	table.Adapt[*memstore.Scanner](memstore.New())
func Adapt[S merge.Source](store scanStore[S]) Store {
	return adapted[S]{scanStore: store}
}

type Config struct {
	Store   Store
	Reducer merge.Reducer
	// CompactionReducer is used by Compact. Defaults to Reducer.
	CompactionReducer merge.Reducer
	// WriteBack compacts every group merged by a read.
	WriteBack bool
	Metrics   *metrics.Metrics
	// Now overrides the wall clock used to stamp appended rows.
	Now func() int64
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Store == nil {
		errGrp = append(errGrp, fmt.Errorf("%w: store cannot be nil", ErrInvalidConfiguration))
	}
	if c.Reducer == nil {
		errGrp = append(errGrp, fmt.Errorf("%w: reducer cannot be nil", ErrInvalidConfiguration))
	}
	return errors.Join(errGrp...)
}

type Table struct {
	store     Store
	reducer   merge.Reducer
	compactor merge.Reducer
	writeBack bool
	metrics   *metrics.Metrics
	clock     *clock
}

func New(cfg *Config) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	compactor := cfg.CompactionReducer
	if compactor == nil {
		compactor = cfg.Reducer
	}

	return &Table{
		store:     cfg.Store,
		reducer:   cfg.Reducer,
		compactor: compactor,
		writeBack: cfg.WriteBack,
		metrics:   cfg.Metrics,
		clock:     newClock(cfg.Now),
	}, nil
}

// Append stores cells as a new delta row of originalKey and returns the row key. Cells without a
// timestamp are stamped with the time of the row.
func (t *Table) Append(originalKey []byte, cells ...litetable.Cell) ([]byte, error) {
	if len(cells) == 0 {
		return nil, ErrNoCells
	}

	if err := rowkey.Validate(originalKey); err != nil {
		return nil, err
	}

	ts := t.clock.Next()
	key, err := rowkey.New(originalKey, ts)
	if err != nil {
		return nil, err
	}

	row := &litetable.Row{Key: key, Cells: make([]litetable.Cell, len(cells))}
	for i, c := range cells {
		if c.Timestamp == 0 {
			c.Timestamp = ts
		}
		row.Cells[i] = c
	}

	if err := t.store.Put(row); err != nil {
		return nil, fmt.Errorf("append to %q: %w", originalKey, err)
	}

	log.Debug().Msgf("appended %s", rowkey.Format(key))
	return key, nil
}

// Get returns the logical row of originalKey. With write-back configured the merged group is
// compacted as a side effect.
func (t *Table) Get(originalKey []byte) (*litetable.Row, error) {
	return t.get(originalKey, t.writeBack)
}

// Lookup is Get without write-back.
func (t *Table) Lookup(originalKey []byte) (*litetable.Row, error) {
	return t.get(originalKey, false)
}

func (t *Table) get(originalKey []byte, writeBack bool) (*litetable.Row, error) {
	if err := rowkey.Validate(originalKey); err != nil {
		return nil, err
	}

	start, stop := rowkey.Range(originalKey)
	s, err := t.scan(start, stop, t.reducer, writeBack)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Msgf("failed to close scan of %q", originalKey)
		}
	}()

	row, err := s.Next()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, originalKey)
	}
	return row, nil
}

// Scan returns a scanner over the logical rows with keys in [start, stop). Original keys can be
// used as bounds. The caller must close the scanner.
func (t *Table) Scan(start, stop []byte) (*merge.Scanner, error) {
	return t.scan(start, stop, t.reducer, t.writeBack)
}

// Read is Scan without write-back. It never modifies the store.
func (t *Table) Read(start, stop []byte) (*merge.Scanner, error) {
	return t.scan(start, stop, t.reducer, false)
}

// Compact scans [start, stop) with the compaction reducer and write-back enabled regardless of
// the table configuration.
func (t *Table) Compact(start, stop []byte) (*merge.Scanner, error) {
	return t.scan(start, stop, t.compactor, true)
}

func (t *Table) scan(start, stop []byte, reducer merge.Reducer, writeBack bool) (*merge.Scanner, error) {
	src, err := t.store.Scan(start, stop)
	if err != nil {
		return nil, fmt.Errorf("open scan: %w", err)
	}

	s, err := merge.New(&merge.Config{
		Source:    src,
		Reducer:   reducer,
		Store:     t.store,
		WriteBack: writeBack,
		Metrics:   t.metrics,
	})
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return s, nil
}
