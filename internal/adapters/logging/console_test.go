package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustplane/trustplane/internal/ports"
)

func fixedTime() time.Time {
	return time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
}

func TestConsoleLogger_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimeSource(fixedTime))

	logger.Info(context.Background(), "snapshot saved", ports.F("path", "/tmp/trust.json"))

	assert.Equal(t, "2026-08-27T10:00:00Z INFO snapshot saved path=/tmp/trust.json\n", buf.String())
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelWarn))

	ctx := context.Background()
	logger.Debug(ctx, "dropped")
	logger.Info(ctx, "dropped")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("kept")))
}

func TestConsoleLogger_DebugLevelPassesEverything(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelDebug))

	logger.Debug(context.Background(), "verbose detail")
	assert.Contains(t, buf.String(), "DEBUG verbose detail")
}

func TestConsoleLogger_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewConsoleLogger(WithOutput(&buf), WithTimeSource(fixedTime))
	logger := base.With(ports.F("component", "refresher"))

	logger.Info(context.Background(), "tick", ports.F("iteration", 3))

	assert.Contains(t, buf.String(), "component=refresher")
	assert.Contains(t, buf.String(), "iteration=3")

	// The parent logger does not inherit the child's fields.
	buf.Reset()
	base.Info(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "component")
}

func TestConsoleLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithJSON(), WithTimeSource(fixedTime))

	logger.Warn(context.Background(), "bundle load failed", ports.F("attempt", 2))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "2026-08-27T10:00:00Z", entry["time"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "bundle load failed", entry["msg"])
	assert.Equal(t, float64(2), entry["attempt"])
}
