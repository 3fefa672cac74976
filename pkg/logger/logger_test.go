package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(WARN)
	log.SetOutput(&buf)

	log.Debug("debug message")
	log.Info("info message")
	assert.Empty(t, buf.String())

	log.Warn("warn message")
	log.Error("error message")
	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "error message")
}

func TestLogIncludesCallerAndFormatting(t *testing.T) {
	var buf bytes.Buffer
	log := New(DEBUG)
	log.SetOutput(&buf)

	log.Info("applied %d migration(s)", 3)
	out := buf.String()
	assert.Contains(t, out, "applied 3 migration(s)")
	assert.Contains(t, out, "logger_test.go")
}

func TestFatalCallsExit(t *testing.T) {
	var buf bytes.Buffer
	var code int
	log := New(DEBUG)
	log.SetOutput(&buf)
	log.exit = func(c int) { code = c }

	log.Fatal("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL]")
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, DEBUG, LevelFromEnv())

	t.Setenv("LOG_LEVEL", "ERROR")
	assert.Equal(t, ERROR, LevelFromEnv())

	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, INFO, LevelFromEnv())
}
