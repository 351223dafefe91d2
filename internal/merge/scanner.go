package merge

import (
	"fmt"
	"github.com/litetable/litetable-hut/internal/litetable"
	"github.com/rs/zerolog/log"
)

// Next returns the next logical row, or nil once the underlying scan is exhausted.
//
// Rows without any other row sharing their original key are returned unchanged. Groups are
// reduced unless the reducer opts out, and written back if the scanner was configured to.
func (s *Scanner) Next() (*litetable.Row, error) {
	if s.closed {
		return nil, ErrClosed
	}

	first := s.pending
	s.pending = nil
	if first == nil {
		var err error
		if first, err = s.fetch(); err != nil {
			return nil, err
		}
		if first == nil {
			return nil, nil
		}
	}

	second, err := s.fetch()
	if err != nil {
		s.pending = first
		return nil, err
	}
	if second == nil {
		s.metrics.RowYielded()
		return first, nil
	}

	// nothing to merge
	if !s.codec.SameGroup(first.Key, second.Key) {
		s.pending = second
		s.metrics.RowYielded()
		return first, nil
	}

	originalKey := s.codec.OriginalKey(first.Key)
	if !s.reducer.NeedsMerge(originalKey) {
		log.Debug().Str("scanner", s.ID()).Msgf("merge skipped for %q", originalKey)
		if err := s.skipGroup(first, second); err != nil {
			return nil, err
		}
		s.metrics.GroupSkipped()
		s.metrics.RowYielded()
		return first, nil
	}

	result, err := s.reduce(first, second)
	if err != nil {
		return nil, err
	}

	s.metrics.RowYielded()
	return result, nil
}

// reduce runs the reducer over the group starting with first and second, then positions the
// scanner at the start of the next group.
func (s *Scanner) reduce(first, second *litetable.Row) (*litetable.Row, error) {
	originalKey := s.codec.OriginalKey(first.Key)

	if err := s.group.begin(first, second); err != nil {
		return nil, err
	}
	s.acc.begin(first.Key)

	procErr := s.reducer.Process(&s.group, &s.acc)

	// only rows handed to the reducer count as merged
	last := s.group.lastRead

	// read the rest of this group, so the next call starts on the following one
	for s.group.Next() {
	}
	groupErr := s.group.Err()

	result := s.acc.Result()
	s.group.release()
	s.acc.release()

	if groupErr != nil {
		return nil, groupErr
	}
	if procErr != nil {
		return nil, fmt.Errorf("reducing %q: %w", originalKey, procErr)
	}
	s.merged++
	s.metrics.GroupMerged()

	if !s.writeBack {
		return result, nil
	}
	if last == nil {
		log.Debug().Str("scanner", s.ID()).
			Msgf("reducer consumed no rows of %q: nothing to write back", originalKey)
		return result, nil
	}

	return s.storeMerged(result, last)
}

// skipGroup discards the remaining rows of the group first belongs to.
func (s *Scanner) skipGroup(first, second *litetable.Row) error {
	next := second
	for next != nil && s.codec.SameGroup(first.Key, next.Key) {
		var err error
		if next, err = s.fetch(); err != nil {
			return err
		}
	}
	s.pending = next
	return nil
}

// NextN returns up to n logical rows. Fewer rows are returned only when the scan is exhausted.
func (s *Scanner) NextN(n int) ([]*litetable.Row, error) {
	if n <= 0 {
		return []*litetable.Row{}, nil
	}

	rows := make([]*litetable.Row, 0, n)
	for i := 0; i < n; i++ {
		row, err := s.Next()
		if err != nil {
			return rows, err
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close releases the underlying scan.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pending = nil
	if err := s.source.Close(); err != nil {
		return storeError("close scan", err)
	}
	return nil
}

// fetch reads the next physical row from the source.
func (s *Scanner) fetch() (*litetable.Row, error) {
	if s.eof {
		return nil, nil
	}
	row, err := s.source.Next()
	if err != nil {
		return nil, storeError("scan", err)
	}
	if row == nil {
		s.eof = true
		return nil, nil
	}
	s.metrics.RowScanned()
	return row, nil
}
