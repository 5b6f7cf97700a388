package main

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	eventsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csender_events_sent_total",
		Help: "Total number of events written to the target socket.",
	}, []string{"sender_id"})

	bytesSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csender_bytes_sent_total",
		Help: "Total event payload bytes written to the target socket.",
	}, []string{"sender_id"})

	sendErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csender_send_errors_total",
		Help: "Total number of failed socket writes.",
	}, []string{"sender_id"})
)

// serveMetrics exposes Prometheus metrics and a JSON view of the pacing
// counters for anything watching the flood from outside.
func serveMetrics(addr string, sender *Sender) {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		err := json.NewEncoder(w).Encode(sender.Snapshot())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	log.Infof("Metrics listening on %s", addr)

	err := http.ListenAndServe(addr, nil)
	if err != nil {
		log.Errorf("Metrics server failed: %s", err)
	}
}
