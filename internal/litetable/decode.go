package litetable

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCell = errors.New("invalid cell")

// DecodeCell parses the textual form of a cell: "family:qualifier=value". A cell without
// "=value" is a tombstone and carries a nil value.
func DecodeCell(s string) (Cell, error) {
	column, value, hasValue := strings.Cut(s, "=")

	family, qualifier, ok := strings.Cut(column, ":")
	if !ok || family == "" || qualifier == "" {
		return Cell{}, fmt.Errorf("%w: %q must look like family:qualifier=value", ErrInvalidCell, s)
	}

	c := Cell{Family: family, Qualifier: qualifier}
	if hasValue {
		c.Value = []byte(value)
	}
	return c, nil
}

// DecodeCells parses every element of in with DecodeCell.
func DecodeCells(in []string) ([]Cell, error) {
	cells := make([]Cell, 0, len(in))
	for _, s := range in {
		c, err := DecodeCell(s)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}
