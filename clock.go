package main

import (
	"errors"
	"time"
)

// Timestamps are written with microsecond precision and a literal 'Z'
// suffix over the local wall-clock fields, matching what the receivers
// this tool exercises expect to parse.
const (
	timestampLayout = "2006-01-02T15:04:05.000000"
	timestampLen    = len(timestampLayout) + 1 // trailing 'Z'
)

// ErrClockUnavailable means the wall clock could not be read. The send
// loop treats this as fatal rather than emitting events with bogus
// timestamps.
var ErrClockUnavailable = errors.New("clock unavailable")

// A Clock generates wire-format timestamps and detects when the seconds
// field has rolled over between consecutive reads. It remembers the
// previous seconds value, so it is single-caller only: the send loop
// owns it and reads it exactly once per iteration.
type Clock struct {
	now        func() time.Time
	lastSecond int
}

// NewClock returns a Clock backed by the system wall clock with no
// prior observation recorded.
func NewClock() *Clock {
	return &Clock{now: time.Now, lastSecond: -1}
}

// Timestamp formats the current time and reports whether the seconds
// field differs from the previous call. The first call never reports a
// rollover, whatever the clock says.
func (c *Clock) Timestamp() (string, bool, error) {
	t := c.now()
	if t.IsZero() {
		return "", false, ErrClockUnavailable
	}

	stamp := t.Format(timestampLayout) + "Z"

	second := t.Second()
	crossed := c.lastSecond >= 0 && second != c.lastSecond
	c.lastSecond = second

	return stamp, crossed, nil
}
