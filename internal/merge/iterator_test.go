package merge

import (
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRowIterator(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := New(&Config{
		Source: newSource(
			counter(key(t, "a", 1), 1),
			counter(key(t, "b", 1), 2),
			counter(key(t, "b", 2), 3),
		),
		Reducer: &sumReducer{},
	})
	req.NoError(err)

	it := s.Rows()

	_, err = it.At()
	req.ErrorIs(err, ErrProtocolViolation)

	var values []int
	for it.Next() {
		row, err := it.At()
		req.NoError(err)
		values = append(values, value(t, row))
	}
	req.NoError(it.Err())
	req.Equal([]int{1, 5}, values)

	req.False(it.Next())
	_, err = it.At()
	req.ErrorIs(err, ErrProtocolViolation)
}

func TestRowIterator_Error(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	src := newSource(counter(key(t, "a", 1), 1), counter(key(t, "b", 1), 2))
	src.failAt = 0
	s, err := New(&Config{Source: src, Reducer: &sumReducer{}})
	req.NoError(err)

	it := s.Rows()
	req.False(it.Next())
	req.ErrorIs(it.Err(), ErrStoreAccess)

	// the iterator does not resume after an error
	req.False(it.Next())
}

func TestScanner_All(t *testing.T) {
	t.Parallel()

	t.Run("rows", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		s, err := New(&Config{
			Source: newSource(
				counter(key(t, "a", 1), 1),
				counter(key(t, "a", 2), 2),
				counter(key(t, "b", 1), 3),
			),
			Reducer: &sumReducer{},
		})
		req.NoError(err)

		var rows []*litetable.Row
		for row, err := range s.All() {
			req.NoError(err)
			rows = append(rows, row)
		}
		req.Len(rows, 2)
		req.Equal(3, value(t, rows[0]))
	})

	t.Run("break", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		s, err := New(&Config{
			Source: newSource(
				counter(key(t, "a", 1), 1),
				counter(key(t, "b", 1), 2),
				counter(key(t, "c", 1), 3),
			),
			Reducer: &sumReducer{},
		})
		req.NoError(err)

		for range s.All() {
			break
		}

		row, err := s.Next()
		req.NoError(err)
		req.Equal(key(t, "b", 1), row.Key)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		src := newSource(counter(key(t, "a", 1), 1))
		src.failAt = 1
		s, err := New(&Config{Source: src, Reducer: &sumReducer{}})
		req.NoError(err)

		var errs []error
		for row, err := range s.All() {
			req.Nil(row)
			errs = append(errs, err)
		}
		req.Len(errs, 1)
		req.ErrorIs(errs[0], ErrStoreAccess)
	})
}
