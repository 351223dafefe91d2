package merge

import (
	"github.com/litetable/litetable-hut/internal/litetable"
	"iter"
)

// RowIterator is a forward-only view over the logical rows of a Scanner. It cannot be
// restarted, and it stops for good at the first error.
//
//	it := scanner.Rows()
//	for it.Next() {
//		row, _ := it.At()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type RowIterator struct {
	s       *Scanner
	current *litetable.Row
	err     error
	done    bool
}

// Rows returns an iterator over the remaining logical rows of the scanner.
func (s *Scanner) Rows() *RowIterator {
	return &RowIterator{s: s}
}

// Next advances to the next logical row and reports whether there is one.
func (it *RowIterator) Next() bool {
	it.current = nil
	if it.done {
		return false
	}

	row, err := it.s.Next()
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if row == nil {
		it.done = true
		return false
	}

	it.current = row
	return true
}

// At returns the row the iterator is positioned at. Calling At without a successful call to
// Next is a protocol violation.
func (it *RowIterator) At() (*litetable.Row, error) {
	if it.current == nil {
		return nil, newError(ErrProtocolViolation, "At called without a row available")
	}
	return it.current, nil
}

// Err returns the error that ended the iteration, if any.
func (it *RowIterator) Err() error {
	return it.err
}

// All returns the remaining logical rows as a sequence. An error ends the sequence and is
// yielded with a nil row.
func (s *Scanner) All() iter.Seq2[*litetable.Row, error] {
	return func(yield func(*litetable.Row, error) bool) {
		for {
			row, err := s.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if row == nil {
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}
