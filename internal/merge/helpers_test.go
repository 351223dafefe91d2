package merge

import (
	"errors"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/rowkey"
	"github.com/stretchr/testify/require"
	"strconv"
	"testing"
)

var errScan = errors.New("scan failed")

// key builds a delta row key written at ts.
func key(t *testing.T, original string, ts int64) []byte {
	t.Helper()
	k, err := rowkey.New([]byte(original), ts)
	require.NoError(t, err)
	return k
}

// intervalKey builds the key of a row covering the deltas written in [start, end].
func intervalKey(t *testing.T, original string, start, end int64) []byte {
	t.Helper()
	return rowkey.WithIntervalEnd(key(t, original, start), key(t, original, end))
}

// counter builds a row with a single "stats:c" cell.
func counter(k []byte, v int) *litetable.Row {
	return &litetable.Row{
		Key: k,
		Cells: []litetable.Cell{
			{Family: "stats", Qualifier: "c", Timestamp: 1, Value: []byte(strconv.Itoa(v))},
		},
	}
}

func value(t *testing.T, r *litetable.Row) int {
	t.Helper()
	require.NotNil(t, r)
	c, ok := r.Cell("stats", "c")
	require.True(t, ok, "row %s has no stats:c cell", r)
	v, err := strconv.Atoi(string(c.Value))
	require.NoError(t, err)
	return v
}

// sliceSource serves rows in the order given. failAt makes the read of rows[failAt] fail once.
type sliceSource struct {
	rows   []*litetable.Row
	pos    int
	reads  int
	failAt int
	failed bool
	closed bool
}

func newSource(rows ...*litetable.Row) *sliceSource {
	return &sliceSource{rows: rows, failAt: -1}
}

func (s *sliceSource) Next() (*litetable.Row, error) {
	s.reads++
	if s.pos == s.failAt && !s.failed {
		s.failed = true
		return nil, errScan
	}
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// sumReducer adds up stats:c across the group and records the keys it was handed.
type sumReducer struct {
	skip    map[string]bool
	calls   int
	handled [][]byte
	err     error
	// limit stops reading the group after that many rows when > 0
	limit int
}

func (r *sumReducer) NeedsMerge(originalKey []byte) bool {
	return !r.skip[string(originalKey)]
}

func (r *sumReducer) Process(group *Group, acc *Accumulator) error {
	r.calls++
	total := 0
	n := 0
	for group.Next() {
		row := group.Row()
		r.handled = append(r.handled, row.Key)
		if c, ok := row.Cell("stats", "c"); ok {
			v, err := strconv.Atoi(string(c.Value))
			if err != nil {
				return err
			}
			total += v
		}
		n++
		if r.limit > 0 && n == r.limit {
			break
		}
	}
	if err := group.Err(); err != nil {
		return err
	}
	acc.Set("stats", "c", []byte(strconv.Itoa(total)))
	return r.err
}

func drain(t *testing.T, s *Scanner) []*litetable.Row {
	t.Helper()
	var out []*litetable.Row
	for {
		r, err := s.Next()
		require.NoError(t, err)
		if r == nil {
			return out
		}
		out = append(out, r)
	}
}
