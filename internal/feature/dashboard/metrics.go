package dashboard

import "github.com/prometheus/client_golang/prometheus"

var (
	pageLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dashboard_page_loads_total", Help: "Completed posts loads by outcome (ok, error, stale)"},
		[]string{"outcome"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "dashboard_sessions_active", Help: "Dashboard views held in memory"},
	)
)

func init() { prometheus.MustRegister(pageLoads, activeSessions) }
