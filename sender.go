package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/maluscro/csender/reporter"
	director "github.com/relistan/go-director"
	limiter "github.com/sethvargo/go-limiter"
	log "github.com/sirupsen/logrus"
)

// All sends share one rate cap bucket.
const rateLimitKey = "events"

// A Sender floods an already-connected socket with synthesized events,
// tracking elapsed whole seconds and printing a running events-per-second
// statistic. The stretch before the first seconds rollover is a partial
// second and is left unmeasured: nothing is sent until the first
// rollover arms the counters.
type Sender struct {
	// ReportInterval is the number of seconds rollovers between
	// statistics lines.
	ReportInterval int64
	// StopOnSendError stops the loop on a transmit failure instead of
	// tolerating it.
	StopOnSendError bool
	// SenderID labels this process in metrics and reports.
	SenderID string
	// StatsOut receives the progress lines.
	StatsOut io.Writer
	// Limit, when set, caps how many events may be sent per interval.
	Limit limiter.Store
	// Reporter, when set, is fed one record per delivered event.
	Reporter *reporter.ThroughputReporter

	conn   io.Writer
	clock  *Clock
	synth  *Synthesizer
	looper director.Looper
	sleep  func(time.Duration)

	eventsSent    int64
	secondChanges int64
	reports       int64
	sendErrors    int64
}

// NewSender wires a Sender to its collaborators. The conn is the
// connected transmit handle and the looper paces and stops the loop.
func NewSender(conn io.Writer, clock *Clock, synth *Synthesizer, looper director.Looper) *Sender {
	return &Sender{
		ReportInterval: 1,
		StatsOut:       os.Stdout,
		conn:           conn,
		clock:          clock,
		synth:          synth,
		looper:         looper,
		sleep:          time.Sleep,
		secondChanges:  -1,
	}
}

// Run drives the flood until the looper is stopped or an iteration
// fails. Errors reach the caller through the looper's Wait.
func (s *Sender) Run() {
	s.looper.Loop(func() error {
		stamp, crossed, err := s.clock.Timestamp()
		if err != nil {
			log.Errorf("It was not possible to generate a new timestamp: %s", err)
			return fmt.Errorf("timestamp generation failed: %w", err)
		}

		changes := atomic.LoadInt64(&s.secondChanges)
		if crossed {
			changes = atomic.AddInt64(&s.secondChanges, 1)
		}

		if changes < 0 {
			return nil
		}

		if s.Limit == nil || s.takeToken() {
			err := s.sendOne(stamp)
			if err != nil {
				return err
			}
		}

		if crossed && changes >= 1 && changes%s.ReportInterval == 0 {
			s.report(changes)
		}

		return nil
	})
}

// sendOne synthesizes and transmits a single event, keeping the
// counters straight. Failed writes are never counted as sent.
func (s *Sender) sendOne(stamp string) error {
	event, err := s.synth.Synthesize(stamp)
	if err != nil {
		log.Errorf("Event flood stopped: %s", err)
		return err
	}

	n, err := s.conn.Write(event)
	if err != nil {
		atomic.AddInt64(&s.sendErrors, 1)
		sendErrorsTotal.WithLabelValues(s.SenderID).Inc()

		if s.StopOnSendError {
			return fmt.Errorf("transmit failed: %w", err)
		}
		log.Debugf("Transmit failed, continuing: %s", err)
		return nil
	}

	atomic.AddInt64(&s.eventsSent, 1)
	eventsSentTotal.WithLabelValues(s.SenderID).Inc()
	bytesSentTotal.WithLabelValues(s.SenderID).Add(float64(n))

	if s.Reporter != nil {
		s.Reporter.Record(n)
	}

	return nil
}

// takeToken asks the rate cap for one send. When the window is spent it
// sleeps out the remainder and skips this iteration. A broken store
// fails open.
func (s *Sender) takeToken() bool {
	_, _, reset, ok, err := s.Limit.Take(context.Background(), rateLimitKey)
	if err != nil {
		log.Warnf("Unable to check the rate cap, sending anyway: %s", err)
		return true
	}

	if !ok {
		s.sleep(time.Until(time.Unix(0, int64(reset))))
	}

	return ok
}

// report prints one progress line to the stats writer.
func (s *Sender) report(changes int64) {
	reports := atomic.AddInt64(&s.reports, 1)
	sent := atomic.LoadInt64(&s.eventsSent)

	fmt.Fprintf(s.StatsOut, "%4d %6ds %10d events sent, avg: %d events/sec\n",
		reports, changes, sent, sent/changes)
}

// Stats is a point-in-time view of the pacing counters.
type Stats struct {
	SenderID       string
	EventsSent     int64
	SecondsElapsed int64
	Reports        int64
	SendErrors     int64
	EventsPerSec   int64
}

// Snapshot reads the counters. Safe to call from other goroutines while
// the flood runs.
func (s *Sender) Snapshot() Stats {
	sent := atomic.LoadInt64(&s.eventsSent)

	changes := atomic.LoadInt64(&s.secondChanges)
	if changes < 0 {
		changes = 0
	}

	var avg int64
	if changes > 0 {
		avg = sent / changes
	}

	return Stats{
		SenderID:       s.SenderID,
		EventsSent:     sent,
		SecondsElapsed: changes,
		Reports:        atomic.LoadInt64(&s.reports),
		SendErrors:     atomic.LoadInt64(&s.sendErrors),
		EventsPerSec:   avg,
	}
}
