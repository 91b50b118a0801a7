package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestF(t *testing.T) {
	t.Parallel()

	f := F("plugin_id", "test.plugin")
	assert.Equal(t, "plugin_id", f.Key)
	assert.Equal(t, "test.plugin", f.Value)
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNopLogger()
	ctx := context.Background()

	// All methods are safe to call and With returns a usable logger.
	logger.Debug(ctx, "msg")
	logger.Info(ctx, "msg", F("k", "v"))
	logger.Warn(ctx, "msg")
	logger.Error(ctx, "msg")
	assert.NotNil(t, logger.With(F("k", "v")))
}
