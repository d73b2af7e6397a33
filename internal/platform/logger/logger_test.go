package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbooking/taskbooking-api/internal/config"
)

func TestSetup(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestSetupInvalidLevelFallsBack(t *testing.T) {
	log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "chatty"})
	require.NoError(t, err)
	require.NotNil(t, log)
	// Falls back to info: debug is suppressed, info is not.
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestContextHelpers(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	// Without a logger in context, FromContext falls back to default.
	assert.NotNil(t, FromContext(context.Background()))

	other := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, other, FromContextOrDefault(context.Background(), other))
}
