// Package metrics exposes Prometheus instrumentation for migration runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/browseterm/browseterm-db/pkg/logger"
)

// MigrationMetrics records migration step outcomes. It satisfies
// migrate.Observer.
type MigrationMetrics interface {
	StepApplied(direction string, seconds float64)
	StepFailed(direction string)
}

type migrationMetrics struct {
	log           *logger.Logger
	stepsApplied  *prometheus.CounterVec
	stepsFailed   *prometheus.CounterVec
	stepDurations *prometheus.HistogramVec
}

// NewMigrationMetrics registers the migration collectors on registry.
func NewMigrationMetrics(registry *prometheus.Registry, log *logger.Logger) MigrationMetrics {
	stepsApplied := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "migrations_applied_total",
			Help: "The total number of successfully applied migration steps",
		},
		[]string{"direction"},
	)

	stepsFailed := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "migrations_failed_total",
			Help: "The total number of failed migration steps",
		},
		[]string{"direction"},
	)

	stepDurations := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "migration_step_duration_seconds",
			Help:    "Time spent applying a single migration step",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 6), // 10ms .. ~10s
		},
		[]string{"direction"},
	)

	return &migrationMetrics{
		log:           log,
		stepsApplied:  stepsApplied,
		stepsFailed:   stepsFailed,
		stepDurations: stepDurations,
	}
}

// StepApplied counts a successful step and records its duration.
func (m *migrationMetrics) StepApplied(direction string, seconds float64) {
	m.stepsApplied.WithLabelValues(direction).Inc()
	m.stepDurations.WithLabelValues(direction).Observe(seconds)
}

// StepFailed counts a failed step.
func (m *migrationMetrics) StepFailed(direction string) {
	m.stepsFailed.WithLabelValues(direction).Inc()
}

// LogSummary writes the gathered counters to the log at the end of a CLI
// run; one-shot processes have no scrape endpoint.
func LogSummary(registry *prometheus.Registry, log *logger.Logger) {
	families, err := registry.Gather()
	if err != nil {
		log.Warn("Failed to gather metrics: %v", err)
		return
	}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				if v := m.GetCounter().GetValue(); v > 0 {
					log.Debug("metric %s%s = %v", fam.GetName(), labelString(m.GetLabel()), v)
				}
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				if h.GetSampleCount() > 0 {
					log.Debug("metric %s%s: count=%d sum=%.3fs",
						fam.GetName(), labelString(m.GetLabel()), h.GetSampleCount(), h.GetSampleSum())
				}
			}
		}
	}
}

func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	s := "{"
	for i, l := range labels {
		if i > 0 {
			s += ","
		}
		s += l.GetName() + "=" + l.GetValue()
	}
	return s + "}"
}
