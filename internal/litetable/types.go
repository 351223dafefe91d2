package litetable

import (
	"bytes"
	"fmt"
)

// Cell is a single column value of a physical row.
type Cell struct {
	Family    string `json:"family" msgpack:"f"`
	Qualifier string `json:"qualifier" msgpack:"q"`
	Timestamp int64  `json:"timestamp" msgpack:"t"` // unix nanoseconds
	Value     []byte `json:"value" msgpack:"v"`
}

// Column identifies a cell inside a row.
type Column struct {
	Family    string
	Qualifier string
}

// Column returns the family:qualifier pair of the cell.
func (c Cell) Column() Column {
	return Column{Family: c.Family, Qualifier: c.Qualifier}
}

// Clone returns a copy of the cell that does not share the value buffer.
func (c Cell) Clone() Cell {
	if c.Value != nil {
		c.Value = bytes.Clone(c.Value)
	}
	return c
}

func (c Column) String() string {
	return c.Family + ":" + c.Qualifier
}

// Row defines a physical row of data: the raw key as stored and the cells in the order they
// were written.
//
// Example:
//
//	Row{
//	  Key: []byte("user1\x00<start><end>"),
//	  Cells: []Cell{
//	    {Family: "stats", Qualifier: "visits", Timestamp: 1716, Value: []byte("10")},
//	  },
//	}
type Row struct {
	Key   []byte `json:"key" msgpack:"k"`
	Cells []Cell `json:"cells" msgpack:"c"`
}

// Cell returns the first cell for the passed in family and qualifier.
func (r *Row) Cell(family, qualifier string) (Cell, bool) {
	if r == nil {
		return Cell{}, false
	}
	for _, c := range r.Cells {
		if c.Family == family && c.Qualifier == qualifier {
			return c, true
		}
	}
	return Cell{}, false
}

// WithKey builds a new row under key holding copies of the cells of r. r is left untouched.
func (r *Row) WithKey(key []byte) *Row {
	out := &Row{
		Key:   bytes.Clone(key),
		Cells: make([]Cell, len(r.Cells)),
	}
	for i, c := range r.Cells {
		out.Cells[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	return r.WithKey(r.Key)
}

func (r *Row) String() string {
	return fmt.Sprintf("row{key=%q cells=%d}", r.Key, len(r.Cells))
}
