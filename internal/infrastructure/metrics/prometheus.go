// Package metrics exposes workflow counters to Prometheus.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

const namespace = "articlebot"

// Prometheus implements ports.Metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	submissions *prometheus.CounterVec
	fetches     *prometheus.HistogramVec
	transitions *prometheus.CounterVec

	dbOpen     prometheus.Gauge
	dbInUse    prometheus.Gauge
	dbIdle     prometheus.Gauge
	dbWaits    prometheus.Gauge
	dbWaitTime prometheus.Gauge
}

var _ ports.Metrics = (*Prometheus)(nil)

// NewPrometheus registers all collectors, plus Go runtime and process collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Completed submissions by source and outcome.",
		}, []string{"source", "outcome"}),
		fetches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "metadata_fetch_seconds",
			Help:      "Latency of page metadata fetches.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_transitions_total",
			Help:      "Tag selection state transitions by target state.",
		}, []string{"state"}),
		dbOpen:     gauge("db_open_connections", "Open database connections."),
		dbInUse:    gauge("db_in_use_connections", "Database connections in use."),
		dbIdle:     gauge("db_idle_connections", "Idle database connections."),
		dbWaits:    gauge("db_wait_count", "Total connection waits."),
		dbWaitTime: gauge("db_wait_seconds", "Total time blocked waiting for a connection."),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.submissions,
		p.fetches,
		p.transitions,
		p.dbOpen,
		p.dbInUse,
		p.dbIdle,
		p.dbWaits,
		p.dbWaitTime,
	)
	return p
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

func (p *Prometheus) SubmissionCompleted(source domain.SubmissionSource, outcome string) {
	p.submissions.WithLabelValues(string(source), outcome).Inc()
}

func (p *Prometheus) MetadataFetched(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.fetches.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (p *Prometheus) SelectionTransition(state domain.SelectionState) {
	p.transitions.WithLabelValues(string(state)).Inc()
}

// UpdateDBStats copies connection pool counters into gauges.
func (p *Prometheus) UpdateDBStats(stats sql.DBStats) {
	p.dbOpen.Set(float64(stats.OpenConnections))
	p.dbInUse.Set(float64(stats.InUse))
	p.dbIdle.Set(float64(stats.Idle))
	p.dbWaits.Set(float64(stats.WaitCount))
	p.dbWaitTime.Set(stats.WaitDuration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
