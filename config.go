package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/maluscro/csender/catalog"
)

// Errors reported by configuration validation. Bad lengths are rejected
// here, before any connection is attempted, never per-message.
var (
	ErrLengthTooSmall = errors.New("event length too small")
	ErrLengthTooLarge = errors.New("event length too large")
)

// Config carries everything main wires together. The CLI fills the
// ignored fields and the rest comes from CSENDER_* environment vars.
type Config struct {
	Transport         string        `envconfig:"TRANSPORT" default:"tcp"`
	ReportInterval    int64         `envconfig:"REPORT_INTERVAL" default:"1"`
	MaxEventsPerSec   int           `envconfig:"MAX_EVENTS_PER_SEC" default:"0"`
	StopOnSendError   bool          `envconfig:"STOP_ON_SEND_ERROR" default:"false"`
	MetricsAddr       string        `envconfig:"METRICS_ADDR"`
	ReportURL         string        `envconfig:"REPORT_URL"`
	ReportURLInterval time.Duration `envconfig:"REPORT_URL_INTERVAL" default:"1m"`
	DiagSyslogAddr    string        `envconfig:"DIAG_SYSLOG_ADDR"`
	LoggingLevel      string        `envconfig:"LOGGING_LEVEL" default:"info"`

	Hostname     string `ignored:"true"`
	Service      string `ignored:"true"`
	EventLength  int    `ignored:"true"`
	RandomLength bool   `ignored:"true"`
	FeedFile     string `ignored:"true"`
	CatalogFile  string `ignored:"true"`
}

// Validate rejects configurations the send loop must never see.
func (c *Config) Validate() error {
	if c.Transport != "tcp" && c.Transport != "udp" {
		return fmt.Errorf("unsupported transport %q, expected tcp or udp", c.Transport)
	}

	if c.Hostname == "" || c.Service == "" {
		return errors.New("a target hostname and port are required")
	}

	modes := 0
	if c.EventLength != -1 {
		modes++
	}
	if c.RandomLength {
		modes++
	}
	if c.FeedFile != "" {
		modes++
	}
	if modes > 1 {
		return errors.New("--length, --random, and --feed are mutually exclusive")
	}

	if c.EventLength != -1 {
		if c.EventLength < minEventLength {
			return fmt.Errorf("%w: %d bytes, the minimum is %d",
				ErrLengthTooSmall, c.EventLength, minEventLength)
		}
		if c.EventLength > maxEventLength {
			return fmt.Errorf("%w: %d bytes, the maximum is %d",
				ErrLengthTooLarge, c.EventLength, maxEventLength)
		}
	}

	if c.ReportInterval < 1 {
		return fmt.Errorf("report interval must be at least 1, got %d", c.ReportInterval)
	}

	if c.MaxEventsPerSec < 0 {
		return fmt.Errorf("max events per second can't be negative, got %d", c.MaxEventsPerSec)
	}

	return nil
}

// BodyMode maps the validated mode selection onto the synthesizer mode.
func (c *Config) BodyMode() BodyMode {
	switch {
	case c.RandomLength:
		return BodyRandomLength
	case c.FeedFile != "":
		return BodyFileFeed
	case c.EventLength != -1:
		return BodyFixedLength
	default:
		return BodyCatalog
	}
}

// catalogFits rejects custom catalogs whose entries can't fit inside
// the largest allowed message.
func catalogFits(cat *catalog.Catalog) error {
	maxBody := maxEventLength - eventHeaderLen - 1

	for i := 0; i < cat.Len(); i++ {
		if len(cat.Entry(i)) > maxBody {
			return fmt.Errorf("catalog entry %d is %d bytes, the maximum body is %d",
				i, len(cat.Entry(i)), maxBody)
		}
	}

	return nil
}
