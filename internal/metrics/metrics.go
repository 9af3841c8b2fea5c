package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records what happened during one check run. All methods are safe
// on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	// Run outcomes: changed, unchanged, failed
	RunOutcome *prometheus.CounterVec

	// Notification deliveries by kind and result
	Notifications *prometheus.CounterVec

	StateSaveFailures prometheus.Counter

	LastRunTimestamp prometheus.Gauge

	// Per-stage latency: fetch, extract, notify
	StageDuration *prometheus.HistogramVec
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dvwatch_runs_total",
			Help: "Check runs by outcome",
		}, []string{"outcome"}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dvwatch_notifications_total",
			Help: "Notification deliveries by message kind and result",
		}, []string{"kind", "result"}),

		StateSaveFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dvwatch_state_save_failures_total",
			Help: "State file writes that failed",
		}),

		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dvwatch_last_run_timestamp_seconds",
			Help: "Unix time the last check run finished",
		}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dvwatch_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"stage"}),
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementNotification(kind string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.Notifications.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) IncrementStateSaveFailure() {
	if m != nil {
		m.StateSaveFailures.Inc()
	}
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

func (m *Metrics) MarkRunFinished(t time.Time) {
	if m != nil {
		m.LastRunTimestamp.Set(float64(t.Unix()))
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
