package metrics

import (
	"bytes"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browseterm/browseterm-db/pkg/logger"
)

func testLogger() *logger.Logger {
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)
	return log
}

func TestMigrationMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMigrationMetrics(registry, testLogger()).(*migrationMetrics)

	m.StepApplied("up", 0.05)
	m.StepApplied("up", 0.10)
	m.StepApplied("down", 0.02)
	m.StepFailed("up")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stepsApplied.WithLabelValues("up")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepsApplied.WithLabelValues("down")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepsFailed.WithLabelValues("up")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.stepsFailed.WithLabelValues("down")))

	families, err := registry.Gather()
	require.NoError(t, err)
	byName := make(map[string]bool, len(families))
	for _, fam := range families {
		byName[fam.GetName()] = true
	}
	assert.True(t, byName["migrations_applied_total"])
	assert.True(t, byName["migrations_failed_total"])
	assert.True(t, byName["migration_step_duration_seconds"])
}

func TestLogSummaryDoesNotPanicOnEmptyRegistry(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.DEBUG)
	log.SetOutput(&buf)

	LogSummary(prometheus.NewRegistry(), log)
	assert.Empty(t, buf.String())
}

func TestLogSummaryLogsNonZeroCounters(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.DEBUG)
	log.SetOutput(&buf)

	registry := prometheus.NewRegistry()
	m := NewMigrationMetrics(registry, log)
	m.StepApplied("up", 0.05)

	LogSummary(registry, log)
	out := buf.String()
	assert.Contains(t, out, "migrations_applied_total{direction=up}")
	assert.Contains(t, out, "migration_step_duration_seconds{direction=up}")
}
