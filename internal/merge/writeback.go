package merge

import (
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/litetable/litetable-hut/internal/rowkey"
	"github.com/rs/zerolog/log"
)

// storeMerged persists result as an interval row covering result.Key through last.Key and
// deletes the rows it replaces. The interval row is returned; result itself is not modified.
//
// The put always happens before the delete. If the delete fails, or only partially runs, the
// leftover rows are skipped by later scans because they do not start after the interval row.
func (s *Scanner) storeMerged(result, last *litetable.Row) (*litetable.Row, error) {
	// result is keyed by the first row of the group, whose write time becomes the start of
	// the interval
	key := s.codec.WithIntervalEnd(result.Key, last.Key)
	merged := result.WithKey(key)

	if err := s.store.Put(merged); err != nil {
		s.metrics.WriteBackFailed()
		return nil, storeError("put merged row", err)
	}

	if err := s.store.DeleteRange(result.Key, last.Key, key); err != nil {
		s.metrics.WriteBackFailed()
		return nil, storeError("delete merged range", err)
	}

	s.metrics.WriteBackDone()
	log.Debug().Str("scanner", s.ID()).
		Msgf("wrote back %s covering %s..%s", rowkey.Format(key), rowkey.Format(result.Key),
			rowkey.Format(last.Key))

	return merged, nil
}
