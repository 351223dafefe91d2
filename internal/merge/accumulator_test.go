package merge

import (
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAccumulator(t *testing.T) {
	t.Parallel()

	cell := func(fam, qual, v string, ts int64) litetable.Cell {
		return litetable.Cell{Family: fam, Qualifier: qual, Timestamp: ts, Value: []byte(v)}
	}

	tests := map[string]struct {
		apply func(a *Accumulator)
		want  []litetable.Cell
	}{
		"empty": {
			apply: func(a *Accumulator) {},
			want:  []litetable.Cell{},
		},
		"last write wins": {
			apply: func(a *Accumulator) {
				a.Add(cell("f", "a", "1", 1), cell("f", "b", "2", 2))
				a.Add(cell("f", "a", "3", 3))
			},
			want: []litetable.Cell{cell("f", "a", "3", 3), cell("f", "b", "2", 2)},
		},
		"families are distinct": {
			apply: func(a *Accumulator) {
				a.Add(cell("f", "a", "1", 1), cell("g", "a", "2", 2))
			},
			want: []litetable.Cell{cell("f", "a", "1", 1), cell("g", "a", "2", 2)},
		},
		"set keeps the timestamp": {
			apply: func(a *Accumulator) {
				a.Add(cell("f", "a", "1", 7))
				a.Set("f", "a", []byte("9"))
			},
			want: []litetable.Cell{cell("f", "a", "9", 7)},
		},
		"delete": {
			apply: func(a *Accumulator) {
				a.Add(cell("f", "a", "1", 1), cell("f", "b", "2", 2))
				a.Delete("f", "a")
				a.Delete("f", "missing")
			},
			want: []litetable.Cell{cell("f", "b", "2", 2)},
		},
		"re-added after delete moves to the end": {
			apply: func(a *Accumulator) {
				a.Add(cell("f", "a", "1", 1), cell("f", "b", "2", 2))
				a.Delete("f", "a")
				a.Add(cell("f", "a", "3", 3))
			},
			want: []litetable.Cell{cell("f", "b", "2", 2), cell("f", "a", "3", 3)},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)

			var a Accumulator
			a.begin([]byte("k"))
			tc.apply(&a)

			got := a.Result()
			req.Equal([]byte("k"), got.Key)
			req.Equal(tc.want, got.Cells)
			req.Equal(len(tc.want), a.Len())
		})
	}
}

func TestAccumulator_SetStampsNewCells(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	var a Accumulator
	a.begin([]byte("k"))
	a.Set("f", "a", []byte("1"))

	c, ok := a.Get("f", "a")
	req.True(ok)
	req.Positive(c.Timestamp)
	req.Equal([]byte("1"), c.Value)

	_, ok = a.Get("f", "b")
	req.False(ok)
}

func TestAccumulator_Released(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	var a Accumulator
	a.begin([]byte("k"))
	a.release()

	req.PanicsWithError(newError(ErrProtocolViolation, "accumulator used outside of Process").Error(),
		func() { a.Set("f", "a", nil) })
	req.Panics(func() { a.Add(litetable.Cell{}) })
	req.Panics(func() { a.Delete("f", "a") })

	_, ok := a.Get("f", "a")
	req.False(ok)
}
