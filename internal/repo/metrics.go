package repo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	remoteReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_remote_requests_total", Help: "Remote API reads by resource and outcome"},
		[]string{"resource", "outcome"},
	)
	remoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_remote_request_duration_seconds",
			Help:    "Latency of remote API reads",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"},
	)
)

func init() { prometheus.MustRegister(remoteReqTotal, remoteLatency) }

func observe(resource string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	remoteReqTotal.WithLabelValues(resource, outcome).Inc()
	remoteLatency.WithLabelValues(resource).Observe(time.Since(start).Seconds())
}
