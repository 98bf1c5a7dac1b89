// Package metrics exposes Prometheus instruments for the stats service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inhouse"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	leaderboards      *prometheus.CounterVec
	histories         *prometheus.CounterVec
	championsAssigned *prometheus.CounterVec
	pageSessions      *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		leaderboards: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "leaderboards_built_total",
			Help:      "Leaderboards built, split by whether they had any rows.",
		}, []string{"empty"}),
		histories: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "histories_served_total",
			Help:      "Game histories served, split by whether they had any games.",
		}, []string{"empty"}),
		championsAssigned: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "champion_assignments_total",
			Help:      "Champion assignments by outcome.",
		}, []string{"outcome"}),
		pageSessions: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "paging",
			Name:      "sessions",
			Help:      "Live page sessions by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) LeaderboardBuilt(empty bool) {
	m.leaderboards.WithLabelValues(strconv.FormatBool(empty)).Inc()
}

func (m *Metrics) HistoryServed(empty bool) {
	m.histories.WithLabelValues(strconv.FormatBool(empty)).Inc()
}

func (m *Metrics) ChampionAssigned(outcome string) {
	m.championsAssigned.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetPageSessions(kind string, n int) {
	m.pageSessions.WithLabelValues(kind).Set(float64(n))
}
