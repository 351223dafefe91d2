package litetable

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRow_WithKey(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	orig := &Row{
		Key: []byte("a"),
		Cells: []Cell{
			{Family: "f", Qualifier: "q", Timestamp: 1, Value: []byte("10")},
		},
	}

	moved := orig.WithKey([]byte("b"))
	req.Equal([]byte("b"), moved.Key)
	req.Equal(orig.Cells, moved.Cells)

	// the copy must not alias the original cells
	moved.Cells[0].Value[0] = '9'
	moved.Cells[0].Qualifier = "other"
	req.Equal([]byte("10"), orig.Cells[0].Value)
	req.Equal("q", orig.Cells[0].Qualifier)
	req.Equal([]byte("a"), orig.Key)
}

func TestRow_Cell(t *testing.T) {
	t.Parallel()

	r := &Row{
		Key: []byte("a"),
		Cells: []Cell{
			{Family: "f", Qualifier: "q1", Value: []byte("1")},
			{Family: "f", Qualifier: "q2", Value: []byte("2")},
		},
	}

	tests := map[string]struct {
		row       *Row
		family    string
		qualifier string
		want      []byte
		found     bool
	}{
		"found":          {row: r, family: "f", qualifier: "q2", want: []byte("2"), found: true},
		"wrong family":   {row: r, family: "g", qualifier: "q1"},
		"wrong qualifer": {row: r, family: "f", qualifier: "q3"},
		"nil row":        {row: nil, family: "f", qualifier: "q1"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c, ok := tc.row.Cell(tc.family, tc.qualifier)
			require.Equal(t, tc.found, ok)
			if tc.found {
				require.Equal(t, tc.want, c.Value)
			}
		})
	}
}

func TestCell_Column(t *testing.T) {
	c := Cell{Family: "stats", Qualifier: "visits"}
	require.Equal(t, "stats:visits", c.Column().String())
}
