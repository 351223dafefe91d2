// Package reducers provides the stock merge.Reducer implementations.
package reducers

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/merge"
	"strconv"
)

var (
	ErrUnknownReducer = errors.New("unknown reducer")
	ErrNotANumber     = errors.New("cell value is not a decimal integer")
)

const (
	KindSum    = "sum"
	KindLatest = "latest"
)

// ByName returns the reducer configured as kind.
func ByName(kind string) (merge.Reducer, error) {
	switch kind {
	case KindSum:
		return Sum{}, nil
	case KindLatest:
		return Latest{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReducer, kind)
	}
}

// Sum adds up the decimal integer values of every column across the group. The summed cell
// carries the timestamp of the latest contribution.
type Sum struct{}

func (Sum) NeedsMerge([]byte) bool { return true }

func (Sum) Process(group *merge.Group, acc *merge.Accumulator) error {
	for group.Next() {
		for _, c := range group.Row().Cells {
			n, err := strconv.ParseInt(string(c.Value), 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrNotANumber, c.Column(), c.Value)
			}

			if prev, ok := acc.Get(c.Family, c.Qualifier); ok {
				// prev always holds a value written below
				total, _ := strconv.ParseInt(string(prev.Value), 10, 64)
				n += total
				if prev.Timestamp > c.Timestamp {
					c.Timestamp = prev.Timestamp
				}
			}

			acc.Add(litetable.Cell{
				Family:    c.Family,
				Qualifier: c.Qualifier,
				Timestamp: c.Timestamp,
				Value:     []byte(strconv.FormatInt(n, 10)),
			})
		}
	}
	return group.Err()
}

// Latest keeps the last written cell of every column. A cell with a nil value is a tombstone
// and removes the column.
type Latest struct{}

func (Latest) NeedsMerge([]byte) bool { return true }

func (Latest) Process(group *merge.Group, acc *merge.Accumulator) error {
	for group.Next() {
		for _, c := range group.Row().Cells {
			if c.Value == nil {
				acc.Delete(c.Family, c.Qualifier)
				continue
			}
			acc.Add(c)
		}
	}
	return group.Err()
}

// Except wraps r so that groups whose original key starts with one of prefixes are not merged.
func Except(r merge.Reducer, prefixes ...string) merge.Reducer {
	if len(prefixes) == 0 {
		return r
	}
	return &except{Reducer: r, prefixes: prefixes}
}

type except struct {
	merge.Reducer
	prefixes []string
}

func (e *except) NeedsMerge(originalKey []byte) bool {
	for _, p := range e.prefixes {
		if bytes.HasPrefix(originalKey, []byte(p)) {
			return false
		}
	}
	return e.Reducer.NeedsMerge(originalKey)
}
