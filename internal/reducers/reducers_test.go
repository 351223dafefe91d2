package reducers

import (
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/merge"
	"github.com/litetable/litetable-hut/internal/rowkey"
	"github.com/litetable/litetable-hut/internal/store/memstore"
	"github.com/stretchr/testify/require"
	"testing"
)

type delta struct {
	original string
	ts       int64
	cells    []litetable.Cell
}

func cell(qual, v string, ts int64) litetable.Cell {
	c := litetable.Cell{Family: "f", Qualifier: qual, Timestamp: ts}
	if v != "-" {
		c.Value = []byte(v)
	}
	return c
}

func reduceAll(t *testing.T, r merge.Reducer, deltas ...delta) []*litetable.Row {
	t.Helper()
	req := require.New(t)

	store := memstore.New()
	for _, d := range deltas {
		k, err := rowkey.New([]byte(d.original), d.ts)
		req.NoError(err)
		req.NoError(store.Put(&litetable.Row{Key: k, Cells: d.cells}))
	}

	src, err := store.Scan(nil, nil)
	req.NoError(err)
	s, err := merge.New(&merge.Config{Source: src, Reducer: r})
	req.NoError(err)
	defer s.Close()

	var rows []*litetable.Row
	for row, err := range s.All() {
		req.NoError(err)
		rows = append(rows, row)
	}
	return rows
}

func TestSum(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	rows := reduceAll(t, Sum{},
		delta{"K", 1, []litetable.Cell{cell("c", "10", 1)}},
		delta{"K", 2, []litetable.Cell{cell("c", "20", 2), cell("d", "-4", 2)}},
		delta{"K", 3, []litetable.Cell{cell("c", "30", 3)}},
		delta{"L", 1, []litetable.Cell{cell("c", "abc", 1)}},
	)
	req.Len(rows, 2)

	req.Equal([]litetable.Cell{cell("c", "60", 3), cell("d", "-4", 2)}, rows[0].Cells)
	// single rows are never handed to the reducer
	req.Equal([]litetable.Cell{cell("c", "abc", 1)}, rows[1].Cells)
}

func TestSum_NotANumber(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	store := memstore.New()
	for ts, v := range []string{"1", "x"} {
		k, err := rowkey.New([]byte("K"), int64(ts+1))
		req.NoError(err)
		req.NoError(store.Put(&litetable.Row{Key: k, Cells: []litetable.Cell{cell("c", v, 1)}}))
	}

	src, err := store.Scan(nil, nil)
	req.NoError(err)
	s, err := merge.New(&merge.Config{Source: src, Reducer: Sum{}})
	req.NoError(err)

	_, err = s.Next()
	req.ErrorIs(err, ErrNotANumber)
}

func TestLatest(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	rows := reduceAll(t, Latest{},
		delta{"K", 1, []litetable.Cell{cell("a", "1", 1), cell("b", "1", 1)}},
		delta{"K", 2, []litetable.Cell{cell("a", "2", 2), cell("c", "2", 2)}},
		delta{"K", 3, []litetable.Cell{cell("b", "-", 3)}},
	)
	req.Len(rows, 1)
	req.Equal([]litetable.Cell{cell("a", "2", 2), cell("c", "2", 2)}, rows[0].Cells)
}

func TestExcept(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	r := Except(Sum{}, "raw/", "tmp")
	req.False(r.NeedsMerge([]byte("raw/1")))
	req.False(r.NeedsMerge([]byte("tmp")))
	req.True(r.NeedsMerge([]byte("ra")))

	rows := reduceAll(t, r,
		delta{"raw/1", 1, []litetable.Cell{cell("c", "1", 1)}},
		delta{"raw/1", 2, []litetable.Cell{cell("c", "2", 2)}},
		delta{"sum", 1, []litetable.Cell{cell("c", "1", 1)}},
		delta{"sum", 2, []litetable.Cell{cell("c", "2", 2)}},
	)
	req.Len(rows, 2)
	req.Equal("1", string(rows[0].Cells[0].Value))
	req.Equal("3", string(rows[1].Cells[0].Value))

	// no prefixes leaves the reducer as is
	req.Equal(Sum{}, Except(Sum{}))
}

func TestByName(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		want    merge.Reducer
		wantErr bool
	}{
		KindSum:    {want: Sum{}},
		KindLatest: {want: Latest{}},
		"median":   {wantErr: true},
		"":         {wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r, err := ByName(name)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownReducer)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, r)
		})
	}
}
