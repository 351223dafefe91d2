package merge

import (
	"github.com/litetable/litetable-hut/internal/litetable"
)

// Group iterates the not yet processed physical rows of one original key.
//
// Two kinds of leftovers of an interrupted write-back are skipped transparently:
//   - runs of rows with byte-identical keys surface once, as the last row of the run;
//   - rows that do not start after the last row handed out were already folded into an
//     interval row and are dropped.
//
// Usage:
//
//	for group.Next() {
//		row := group.Row()
//	}
//	if err := group.Err(); err != nil {
//		...
//	}
type Group struct {
	s *Scanner

	firstKey []byte
	// next is the row prepared for the following call to Next
	next     *litetable.Row
	lastRead *litetable.Row

	exhausted bool
	active    bool
	err       error
}

// begin starts a new group with the first two rows read by the scanner. Exact duplicates of
// the first row are skipped before anything is exposed to the reducer.
func (g *Group) begin(first, second *litetable.Row) error {
	g.firstKey = first.Key
	g.next = first
	g.lastRead = nil
	g.exhausted = false
	g.err = nil
	g.active = true

	codec := g.s.codec
	for second != nil && codec.SameRow(first.Key, second.Key) {
		g.next = second
		g.s.metrics.DuplicateSkipped()

		var err error
		if second, err = g.s.fetch(); err != nil {
			g.release()
			return err
		}
	}
	g.s.pending = second
	return nil
}

// release ends the reduction the group belongs to.
func (g *Group) release() {
	g.firstKey = nil
	g.next = nil
	g.lastRead = nil
	g.exhausted = true
	g.active = false
	g.err = nil
}

// OriginalKey returns the original key shared by every row of the group.
func (g *Group) OriginalKey() []byte {
	if !g.active {
		return nil
	}
	return g.s.codec.OriginalKey(g.firstKey)
}

// Next advances to the next unprocessed row of the group. It returns false once the group is
// exhausted or an error occurred.
func (g *Group) Next() bool {
	if !g.active {
		g.err = newError(ErrProtocolViolation, "group used outside of Process")
		return false
	}
	if !g.hasNext() {
		return false
	}

	g.lastRead = g.next
	g.next = nil
	return true
}

// Row returns the row the last successful call to Next advanced to.
func (g *Group) Row() *litetable.Row {
	return g.lastRead
}

// Err returns the error that stopped the iteration, if any.
func (g *Group) Err() error {
	return g.err
}

// hasNext prepares g.next. The row that ends the group stays buffered in the scanner as the
// first row of the following group.
func (g *Group) hasNext() bool {
	if g.exhausted || g.err != nil {
		return false
	}
	if g.next != nil {
		return true
	}

	codec := g.s.codec

	candidate, ok := g.candidate()
	if !ok {
		return false
	}

	sameGroup := codec.SameGroup(g.firstKey, candidate.Key)

	// rows covered by an interval row whose originals were not deleted yet
	for sameGroup && g.lastRead != nil && !codec.IsAfter(candidate.Key, g.lastRead.Key) {
		g.s.metrics.ProcessedSkipped()

		if candidate, ok = g.fetch(); !ok {
			return false
		}
		sameGroup = codec.SameGroup(g.firstKey, candidate.Key)
	}

	if !sameGroup {
		g.s.pending = candidate
		g.exhausted = true
		return false
	}

	g.next = candidate

	after, err := g.s.fetch()
	if err != nil {
		g.err = err
		return false
	}
	for after != nil && codec.SameRow(candidate.Key, after.Key) {
		g.next = after
		g.s.metrics.DuplicateSkipped()

		if after, err = g.s.fetch(); err != nil {
			g.err = err
			return false
		}
	}
	g.s.pending = after

	return true
}

// candidate takes the buffered row from the scanner, or reads a new one.
func (g *Group) candidate() (*litetable.Row, bool) {
	if row := g.s.pending; row != nil {
		g.s.pending = nil
		return row, true
	}
	return g.fetch()
}

// fetch reads the next row, marking the group exhausted at the end of the scan.
func (g *Group) fetch() (*litetable.Row, bool) {
	row, err := g.s.fetch()
	if err != nil {
		g.err = err
		return nil, false
	}
	if row == nil {
		g.exhausted = true
		return nil, false
	}
	return row, true
}
