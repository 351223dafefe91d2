// Package merge reconstructs logical rows from update-as-append delta rows.
//
// Every update of a logical record is stored as its own physical row keyed by the original key
// plus an ordering suffix. A Scanner walks the physical rows in key order, groups them by
// original key and hands every group with more than one row to a Reducer. The reduced row can
// optionally be written back as a single interval row, after which the rows it covers are
// deleted. Write-back is not atomic: the read path tolerates the leftovers of an interrupted
// write-back (duplicate rows and rows already folded into an interval row).
package merge

import (
	"errors"
	"github.com/google/uuid"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/metrics"
	"github.com/litetable/litetable-hut/internal/rowkey"
)

//go:generate mockgen -destination=merge_mock.go -package=merge -source=merge.go

// Source is a forward scan over physical rows in strictly ascending key order. Next returns a
// nil row once the scan is exhausted.
type Source interface {
	Next() (*litetable.Row, error)
	Close() error
}

// Store persists merged rows and removes the rows they replace.
type Store interface {
	// Put writes a single row, replacing a row with the identical key.
	Put(row *litetable.Row) error
	// DeleteRange deletes every row with a key in [firstInclusive, lastInclusive] except the
	// row whose key equals except.
	DeleteRange(firstInclusive, lastInclusive, except []byte) error
}

// Reducer folds the delta rows of one original key into a single row.
type Reducer interface {
	// NeedsMerge lets the reducer opt a group out of merging. The first physical row of the
	// group is then returned as is.
	NeedsMerge(originalKey []byte) bool
	// Process reads rows from the group and records the reduced columns in the accumulator.
	// Neither argument may be retained after Process returns.
	Process(group *Group, acc *Accumulator) error
}

// KeyCodec is the row key contract the scanner depends on.
type KeyCodec interface {
	OriginalKey(key []byte) []byte
	SameGroup(a, b []byte) bool
	SameRow(a, b []byte) bool
	IsAfter(a, b []byte) bool
	WithIntervalEnd(key, last []byte) []byte
}

// Config configures a Scanner.
type Config struct {
	Source  Source
	Reducer Reducer
	// Store is only required when WriteBack is enabled.
	Store Store
	// WriteBack persists every merged group as an interval row and deletes the rows it covers.
	WriteBack bool
	// Codec defaults to rowkey.Codec.
	Codec   KeyCodec
	Metrics *metrics.Metrics
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Source == nil {
		errGrp = append(errGrp, newError(ErrInvalidConfiguration, "source cannot be nil"))
	}
	if c.Reducer == nil {
		errGrp = append(errGrp, newError(ErrInvalidConfiguration, "reducer cannot be nil"))
	}
	if c.WriteBack && c.Store == nil {
		errGrp = append(errGrp, newError(ErrInvalidConfiguration,
			"store cannot be nil when write-back is enabled"))
	}
	return errors.Join(errGrp...)
}

// Scanner produces one logical row per original key. It is not safe for concurrent use.
type Scanner struct {
	id        uuid.UUID
	source    Source
	store     Store
	reducer   Reducer
	codec     KeyCodec
	writeBack bool
	metrics   *metrics.Metrics

	// pending is the first row of the next group, read while looking for the end of the
	// current one.
	pending *litetable.Row

	group Group
	acc   Accumulator

	// merged counts the groups reduced so far
	merged int

	// eof is set once the source reported the end of the scan
	eof    bool
	closed bool
}

// New creates a new Scanner over cfg.Source.
func New(cfg *Config) (*Scanner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	codec := cfg.Codec
	if codec == nil {
		codec = rowkey.Codec{}
	}

	s := &Scanner{
		id:        uuid.New(),
		source:    cfg.Source,
		store:     cfg.Store,
		reducer:   cfg.Reducer,
		codec:     codec,
		writeBack: cfg.WriteBack,
		metrics:   cfg.Metrics,
	}
	s.group.s = s

	return s, nil
}

// ID identifies the scanner in logs.
func (s *Scanner) ID() string {
	return s.id.String()
}

// Merged returns the number of groups the scanner reduced.
func (s *Scanner) Merged() int {
	return s.merged
}
