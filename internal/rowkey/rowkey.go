// Package rowkey encodes the physical keys of delta rows.
//
// A physical key is the original (logical) key followed by a fixed size suffix:
//
//	original | 0x00 | start (8 bytes, big endian) | end (8 bytes, big endian)
//
// A freshly appended delta row has start == end == its write timestamp. A merged interval row
// keeps the start of the first row it covers and the end of the last one, which makes it sort
// right after the first row it replaced and before every newer delta of the same group.
//
// Original keys may not contain 0x00: the separator is what keeps all rows of one original key
// contiguous in byte order, and what keeps groups sorted by their original key.
package rowkey

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	separator  byte = 0x00
	stampLen        = 8
	suffixLen       = 1 + 2*stampLen
	rangeLimit byte = 0x01
)

var ErrInvalidKey = errors.New("rowkey: invalid original key")

// New returns the key of a delta row for original written at ts.
func New(original []byte, ts int64) ([]byte, error) {
	if err := Validate(original); err != nil {
		return nil, err
	}
	return encode(original, ts, ts), nil
}

// Validate reports whether original can be used as the original key of a delta row.
func Validate(original []byte) error {
	if len(original) == 0 {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if bytes.IndexByte(original, separator) >= 0 {
		return fmt.Errorf("%w: %q contains a 0x00 byte", ErrInvalidKey, original)
	}
	return nil
}

func encode(original []byte, start, end int64) []byte {
	key := make([]byte, len(original)+suffixLen)
	n := copy(key, original)
	key[n] = separator
	binary.BigEndian.PutUint64(key[n+1:], uint64(start))
	binary.BigEndian.PutUint64(key[n+1+stampLen:], uint64(end))
	return key
}

// split returns the original key and the suffix. ok is false for keys that were not produced
// by this package; those are treated as a group of their own.
func split(key []byte) (original []byte, suffix []byte, ok bool) {
	if len(key) <= suffixLen {
		return key, nil, false
	}
	n := len(key) - suffixLen
	if key[n] != separator {
		return key, nil, false
	}
	return key[:n], key[n+1:], true
}

// Original returns the original key of a physical key.
func Original(key []byte) []byte {
	original, _, _ := split(key)
	return original
}

// Interval returns the [start, end] stamps encoded in key.
func Interval(key []byte) (start, end int64, ok bool) {
	_, suffix, ok := split(key)
	if !ok {
		return 0, 0, false
	}
	return int64(binary.BigEndian.Uint64(suffix)), int64(binary.BigEndian.Uint64(suffix[stampLen:])), true
}

// SameGroup reports whether both keys belong to the same original key.
func SameGroup(a, b []byte) bool {
	return bytes.Equal(Original(a), Original(b))
}

// SameRow reports whether both keys are byte-identical.
func SameRow(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// IsAfter reports whether the interval of a starts strictly after the interval of b ends.
// Keys without an interval are never after anything.
func IsAfter(a, b []byte) bool {
	aStart, _, okA := Interval(a)
	_, bEnd, okB := Interval(b)
	if !okA || !okB {
		return false
	}
	return aStart > bEnd
}

// WithIntervalEnd returns a copy of key whose interval ends where the interval of last ends.
// The returned key has the same length as key. If either key carries no interval, a plain copy
// of key is returned.
func WithIntervalEnd(key, last []byte) []byte {
	out := bytes.Clone(key)
	_, suffix, ok := split(out)
	if !ok {
		return out
	}
	_, end, ok := Interval(last)
	if !ok {
		return out
	}
	binary.BigEndian.PutUint64(suffix[stampLen:], uint64(end))
	return out
}

// Range returns the [start, stop) scan bounds that cover every physical row of original.
func Range(original []byte) (start, stop []byte) {
	start = make([]byte, len(original)+1)
	copy(start, original)
	start[len(original)] = separator

	stop = bytes.Clone(start)
	stop[len(original)] = rangeLimit
	return start, stop
}

// Format renders a physical key for logs and the CLI.
func Format(key []byte) string {
	start, end, ok := Interval(key)
	if !ok {
		return fmt.Sprintf("%q", key)
	}
	if start == end {
		return fmt.Sprintf("%s@%d", Original(key), start)
	}
	return fmt.Sprintf("%s@[%d,%d]", Original(key), start, end)
}

// Codec exposes the package functions as a value, for consumers that take the key contract as
// a dependency.
type Codec struct{}

func (Codec) OriginalKey(key []byte) []byte { return Original(key) }
func (Codec) SameGroup(a, b []byte) bool { return SameGroup(a, b) }
func (Codec) SameRow(a, b []byte) bool { return SameRow(a, b) }
func (Codec) IsAfter(a, b []byte) bool { return IsAfter(a, b) }
func (Codec) WithIntervalEnd(key, last []byte) []byte { return WithIntervalEnd(key, last) }
