package table

import (
	"sync/atomic"
	"time"
)

// clock hands out strictly increasing unix nanosecond timestamps, so two appends to the same
// original key never produce the same row key.
type clock struct {
	last atomic.Int64
	now  func() int64
}

func newClock(now func() int64) *clock {
	if now == nil {
		now = func() int64 { return time.Now().UnixNano() }
	}
	return &clock{now: now}
}

func (c *clock) Next() int64 {
	for {
		last := c.last.Load()
		next := c.now()
		if next <= last {
			next = last + 1
		}
		if c.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
