// Package reporter ships periodic throughput snapshots to an external
// collector, so long-running floods can be watched from somewhere other
// than the terminal they were started in.
package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	loghttp "github.com/motemen/go-loghttp"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

// A ThroughputReporter accumulates delivery counts and POSTs a JSON
// snapshot to a collector endpoint on a fixed interval. Counters reset
// each time a report is cut, so every report covers one interval.
type ThroughputReporter struct {
	BaseURL      string
	SenderID     string
	ReportLooper director.Looper

	client     *http.Client
	hostname   string
	eventCount uint64
	byteCount  uint64
}

// NewThroughputReporter returns a properly configured reporter posting
// to the given URL on the given interval.
func NewThroughputReporter(url, senderID string, interval time.Duration) *ThroughputReporter {
	client := cleanhttp.DefaultClient()
	client.Transport = &loghttp.Transport{
		LogRequest: func(req *http.Request) {
			log.Debugf("--> %s %s", req.Method, req.URL)
		},
		LogResponse: func(resp *http.Response) {
			log.Debugf("<-- %d %s", resp.StatusCode, resp.Request.URL)
		},
		Transport: client.Transport,
	}

	hostname, err := os.Hostname()
	if err != nil {
		log.Fatal("Unable to determine hostname! Can't continue")
	}

	return &ThroughputReporter{
		BaseURL:      url,
		SenderID:     senderID,
		ReportLooper: director.NewTimedLooper(director.FOREVER, interval, make(chan error)),
		client:       client,
		hostname:     hostname,
	}
}

// Record adds one delivered event of the given size to the pending
// report.
func (r *ThroughputReporter) Record(size int) {
	atomic.AddUint64(&r.eventCount, 1)
	atomic.AddUint64(&r.byteCount, uint64(size))
}

// Run starts a background goroutine that reports on the configured
// interval. Idle intervals don't produce a report.
func (r *ThroughputReporter) Run() {
	log.Infof("Starting throughput reporter for %s", r.BaseURL)

	go r.ReportLooper.Loop(func() error {
		// Get the current counts and subtract them from the totals using
		// atomic operations, so that no recorded events are lost.
		events := atomic.LoadUint64(&r.eventCount)
		atomic.AddUint64(&r.eventCount, 0-events)

		bytesSent := atomic.LoadUint64(&r.byteCount)
		atomic.AddUint64(&r.byteCount, 0-bytesSent)

		if events > 0 {
			err := r.sendSnapshot(events, bytesSent)
			// We _don't_ want to exit the loop on error
			if err != nil {
				log.Errorf("Error reporting throughput: %s", err)
			}
		}

		return nil
	})
}

// sendSnapshot serializes one throughput report and POSTs it to the
// collector.
func (r *ThroughputReporter) sendSnapshot(events, bytesSent uint64) error {
	data, err := json.Marshal(struct {
		Time       string
		Hostname   string
		SenderID   string
		EventsSent uint64
		BytesSent  uint64
		EventType  string `json:"eventType"`
	}{
		Time:       time.Now().UTC().Format(time.RFC3339),
		Hostname:   r.hostname,
		SenderID:   r.SenderID,
		EventsSent: events,
		BytesSent:  bytesSent,
		EventType:  "SyslogFloodThroughput",
	})
	if err != nil {
		return fmt.Errorf("Unable to encode the report: %s", err)
	}

	req, err := http.NewRequest("POST", r.BaseURL, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("Unable to create http request: %s", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("Failed making HTTP request to the collector: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := ioutil.ReadAll(resp.Body)
		return fmt.Errorf("Bad response from the collector: %s", string(body))
	}

	return nil
}
