// Package metrics holds the Prometheus collectors for parse runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// postsTotal counts extracted posts by outcome: parsed, repaired or failed.
	postsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_posts_total",
			Help: "Introduction posts sent for extraction, by outcome",
		},
		[]string{"outcome"},
	)

	repairsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_repairs_total",
			Help: "JSON repair attempts, by result",
		},
		[]string{"result"},
	)

	completionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roster_completion_duration_seconds",
			Help:    "Completion call latency in seconds, retries included",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"status"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_runs_total",
			Help: "Completed parse runs, by source",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(postsTotal)
	prometheus.MustRegister(repairsTotal)
	prometheus.MustRegister(completionDuration)
	prometheus.MustRegister(runsTotal)
}

// RecordPost counts one extracted post.
func RecordPost(outcome string) {
	postsTotal.WithLabelValues(outcome).Inc()
}

// RecordRepair counts one repair attempt.
func RecordRepair(ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	repairsTotal.WithLabelValues(result).Inc()
}

// ObserveCompletion records how long a completion call took.
func ObserveCompletion(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	completionDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordRun counts a finished run. source is "file" or "http".
func RecordRun(source string) {
	runsTotal.WithLabelValues(source).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
