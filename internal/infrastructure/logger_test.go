package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotewebdemo/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()
	previous := slog.Default()
	defer slog.SetDefault(previous)

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	// second call is a no-op
	again, err := InitializeLogger(config.LoggingConfig{Output: "console"})
	require.NoError(t, err)
	assert.Same(t, logger, again)

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		logDebug bool
		wantOut  string
		wantNone bool
	}{
		{
			name:    "json console",
			cfg:     config.LoggingConfig{Level: "info", Format: "json", Output: "console"},
			wantOut: `"msg":"hello"`,
		},
		{
			name:    "text console",
			cfg:     config.LoggingConfig{Level: "info", Format: "text", Output: "console"},
			wantOut: "msg=hello",
		},
		{
			name:     "debug filtered at warn",
			cfg:      config.LoggingConfig{Level: "warn", Format: "json", Output: "console"},
			logDebug: true,
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, file, err := NewLogger(tt.cfg, &buf)
			require.NoError(t, err)
			assert.Nil(t, file)

			if tt.logDebug {
				logger.Debug("hello")
			} else {
				logger.Info("hello")
			}

			if tt.wantNone {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestNewLoggerBothOutputs(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "both.log")
	var buf bytes.Buffer

	logger, file, err := NewLogger(config.LoggingConfig{
		Level: "info", Format: "json", Output: "both", FilePath: logFile,
	}, &buf)
	require.NoError(t, err)
	require.NotNil(t, file)

	logger.Info("dual")
	require.NoError(t, file.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"dual"`)
	assert.Contains(t, buf.String(), `"msg":"dual"`)
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.With("component", "test").InfoContext(ctx, "with trace")
	logger.Info("without trace")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "test-trace-123", first["trace_id"])
	assert.Equal(t, "test", first["component"])
	assert.NotContains(t, second, "trace_id")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestTraceIDHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	// existing id is kept
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}
