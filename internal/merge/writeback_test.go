package merge

import (
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"testing"
)

func TestScanner_WriteBack(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		putErr    error
		deleteErr error
		// expectDelete is false when the put failure must prevent the delete
		expectDelete bool
	}{
		"success": {
			expectDelete: true,
		},
		"put failure": {
			putErr: assert.AnError,
		},
		"delete failure": {
			deleteErr:    assert.AnError,
			expectDelete: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)
			ctrl := gomock.NewController(t)

			store := NewMockStore(ctrl)
			rows := []*litetable.Row{
				counter(key(t, "K", 1), 10),
				counter(key(t, "K", 2), 20),
				counter(key(t, "K", 3), 30),
			}
			merged := intervalKey(t, "K", 1, 3)

			put := store.EXPECT().
				Put(gomock.Any()).
				DoAndReturn(func(row *litetable.Row) error {
					req.Equal(merged, row.Key)
					req.Equal(60, value(t, row))
					return tc.putErr
				})
			if tc.expectDelete {
				del := store.EXPECT().
					DeleteRange(key(t, "K", 1), key(t, "K", 3), merged).
					Return(tc.deleteErr)
				gomock.InOrder(put, del)
			}

			s, err := New(&Config{
				Source:    newSource(rows...),
				Reducer:   &sumReducer{},
				Store:     store,
				WriteBack: true,
			})
			req.NoError(err)

			got, err := s.Next()
			if tc.putErr != nil || tc.deleteErr != nil {
				req.ErrorIs(err, ErrStoreAccess)
				req.ErrorIs(err, assert.AnError)
				req.Nil(got)
			} else {
				req.NoError(err)
				req.Equal(merged, got.Key)
				req.Equal(60, value(t, got))
			}

			// the source rows are never modified
			req.Equal(key(t, "K", 1), rows[0].Key)
			req.Equal(10, value(t, rows[0]))
		})
	}
}

func TestScanner_WriteBackSkippedWithoutRows(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	ctrl := gomock.NewController(t)

	store := NewMockStore(ctrl)
	reducer := NewMockReducer(ctrl)
	reducer.EXPECT().NeedsMerge([]byte("K")).Return(true)
	reducer.EXPECT().
		Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(g *Group, acc *Accumulator) error {
			// the group is never read
			req.Equal([]byte("K"), g.OriginalKey())
			acc.Set("stats", "c", []byte("0"))
			return nil
		})

	s, err := New(&Config{
		Source:    newSource(counter(key(t, "K", 1), 10), counter(key(t, "K", 2), 20)),
		Reducer:   reducer,
		Store:     store,
		WriteBack: true,
	})
	req.NoError(err)

	got, err := s.Next()
	req.NoError(err)
	req.Equal(key(t, "K", 1), got.Key)
	req.Equal(0, value(t, got))

	got, err = s.Next()
	req.NoError(err)
	req.Nil(got)
}
