package main

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogCapture logs for async testing where we can't get a nice handle on things
func LogCapture(fn func()) string {
	capture := &bytes.Buffer{}
	log.SetOutput(capture)
	fn()
	log.SetOutput(os.Stdout)

	return capture.String()
}

// scriptedClock returns a Clock that replays the given instants in
// order, repeating the last one once the script runs out.
func scriptedClock(instants ...time.Time) *Clock {
	i := 0
	clock := NewClock()
	clock.now = func() time.Time {
		t := instants[i]
		if i < len(instants)-1 {
			i++
		}
		return t
	}

	return clock
}

// brokenClock returns a Clock whose source can no longer be read.
func brokenClock() *Clock {
	clock := NewClock()
	clock.now = func() time.Time { return time.Time{} }

	return clock
}

// mockConn implements the transmit handle, capturing writes. The
// synthesizer reuses its buffer so each write has to be copied out.
type mockConn struct {
	sync.Mutex

	WriteShouldError bool
	Writes           [][]byte
}

func (m *mockConn) Write(p []byte) (int, error) {
	m.Lock()
	defer m.Unlock()

	if m.WriteShouldError {
		return 0, errors.New("intentional test error")
	}

	buf := make([]byte, len(p))
	copy(buf, p)
	m.Writes = append(m.Writes, buf)

	return len(p), nil
}

func (m *mockConn) Count() int {
	m.Lock()
	defer m.Unlock()

	return len(m.Writes)
}
