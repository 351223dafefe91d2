package merge

import (
	"bytes"
	"github.com/litetable/litetable-hut/internal/litetable"
	"sort"
	"time"
)

// Accumulator collects the reduced columns of one group. Each column holds a single cell: the
// last write wins. Columns keep the position of their first write in the result.
type Accumulator struct {
	key    []byte
	cells  map[litetable.Column]slot
	seq    int
	active bool
}

type slot struct {
	cell litetable.Cell
	seq  int
}

// begin resets the accumulator for a group whose result is stored under key.
func (a *Accumulator) begin(key []byte) {
	a.key = key
	a.cells = make(map[litetable.Column]slot)
	a.seq = 0
	a.active = true
}

// release ends the reduction; later mutations are protocol violations.
func (a *Accumulator) release() {
	a.active = false
	a.key = nil
	a.cells = nil
}

func (a *Accumulator) mustBeActive() {
	if !a.active {
		panic(newError(ErrProtocolViolation, "accumulator used outside of Process"))
	}
}

// Add records cells, replacing any previous cell of the same family and qualifier.
func (a *Accumulator) Add(cells ...litetable.Cell) {
	a.mustBeActive()
	for _, c := range cells {
		a.put(c)
	}
}

// Set records value for family:qualifier. A replaced cell keeps its timestamp, a new cell is
// stamped with the current time.
func (a *Accumulator) Set(family, qualifier string, value []byte) {
	a.mustBeActive()

	c := litetable.Cell{
		Family:    family,
		Qualifier: qualifier,
		Value:     value,
	}
	if existing, ok := a.cells[c.Column()]; ok {
		c.Timestamp = existing.cell.Timestamp
	} else {
		c.Timestamp = time.Now().UnixNano()
	}
	a.put(c)
}

// Delete removes family:qualifier from the result. Deleting a missing column is a no-op.
func (a *Accumulator) Delete(family, qualifier string) {
	a.mustBeActive()
	delete(a.cells, litetable.Column{Family: family, Qualifier: qualifier})
}

// Get returns the cell currently recorded for family:qualifier.
func (a *Accumulator) Get(family, qualifier string) (litetable.Cell, bool) {
	s, ok := a.cells[litetable.Column{Family: family, Qualifier: qualifier}]
	return s.cell, ok
}

// Len returns the number of columns recorded.
func (a *Accumulator) Len() int {
	return len(a.cells)
}

func (a *Accumulator) put(c litetable.Cell) {
	col := c.Column()
	if existing, ok := a.cells[col]; ok {
		a.cells[col] = slot{cell: c, seq: existing.seq}
		return
	}
	a.cells[col] = slot{cell: c, seq: a.seq}
	a.seq++
}

// Result materializes the recorded cells as a row under the key given at the start of the
// group.
func (a *Accumulator) Result() *litetable.Row {
	slots := make([]slot, 0, len(a.cells))
	for _, s := range a.cells {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].seq < slots[j].seq
	})

	row := &litetable.Row{
		Key:   bytes.Clone(a.key),
		Cells: make([]litetable.Cell, len(slots)),
	}
	for i, s := range slots {
		row.Cells[i] = s.cell
	}
	return row
}
