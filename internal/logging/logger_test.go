package logging_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/oprotate/internal/logging"
)

func TestLoggerNoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)

	logger.Info("rotated %d credentials", 3)
	logger.Warn("item %s skipped", "acme")
	logger.Error("vault listing failed")

	out := buf.String()
	assert.Contains(t, out, "✓ rotated 3 credentials\n")
	assert.Contains(t, out, "⚠ item acme skipped\n")
	assert.Contains(t, out, "✗ vault listing failed\n")
}

func TestLoggerDebugGating(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)
	logger.Debug("should not appear")
	assert.Empty(t, buf.String())

	debugLogger := logging.NewWithWriter(&buf, true, true)
	debugLogger.Debug("executing op item list")
	assert.Contains(t, buf.String(), "[DEBUG] executing op item list")
}

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	s := logging.Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	out := logging.Redact("value is hunter2 and also hunter2", []string{"hunter2", ""})
	assert.Equal(t, "value is [REDACTED] and also [REDACTED]", out)
}
