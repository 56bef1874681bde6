package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamweaver_intent_requests_total",
		Help: "Requests handled per intent and HTTP status",
	}, []string{"intent", "status"})

	IntentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dreamweaver_intent_latency_seconds",
		Help:    "End-to-end latency per intent",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
	}, []string{"intent"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dreamweaver_upstream_latency_seconds",
		Help:    "Latency of outbound vendor calls",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"provider", "outcome"})

	AudioOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamweaver_story_audio_outcomes_total",
		Help: "Terminal state of the speech stage of bedtime stories",
	}, []string{"outcome"})
)

// ObserveUpstream records one outbound call started at start.
func ObserveUpstream(provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamLatency.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())
}

// ObserveIntent records one handled request.
func ObserveIntent(intent string, status int, start time.Time) {
	IntentRequestsTotal.WithLabelValues(intent, strconv.Itoa(status)).Inc()
	IntentLatency.WithLabelValues(intent).Observe(time.Since(start).Seconds())
}
