package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/allbin/tempscope/internal/config"
)

func TestNewWritesRotatingFile(t *testing.T) {
	cfg := config.Default().Log
	cfg.File = filepath.Join(t.TempDir(), "logs", "tempscope.log")
	cfg.Format = "json"

	logger, closeFn, err := New(cfg)
	require.NoError(t, err)

	logger.Info("Sensor located", zap.String("port", "/dev/ttyACM0"))
	logger.Debug("filtered out")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "Sensor located", entry["message"])
	require.Equal(t, "/dev/ttyACM0", entry["port"])

	_, err = uuid.Parse(entry["run_id"].(string))
	require.NoError(t, err)
}

func TestNewRejectsLevel(t *testing.T) {
	cfg := config.Default().Log
	cfg.Level = "trace"
	cfg.File = filepath.Join(t.TempDir(), "x.log")

	_, _, err := New(cfg)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
		wantErr  bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"trace", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.expected, got, tt.in)
	}
}

func TestConsoleEncoder(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("console", zapcore.AddSync(&buf), zapcore.DebugLevel)

	logger.Warn("Error parsing data", zap.String("line", "bad"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	require.Contains(t, out, "WARN")
	require.Contains(t, out, "Error parsing data")
	require.Contains(t, out, `"line": "bad"`)
	require.Contains(t, out, "run_id")
}

func TestRunIDPerLogger(t *testing.T) {
	var a, b bytes.Buffer
	newLogger("json", zapcore.AddSync(&a), zapcore.InfoLevel).Info("x")
	newLogger("json", zapcore.AddSync(&b), zapcore.InfoLevel).Info("x")

	var ea, eb map[string]any
	require.NoError(t, json.Unmarshal(a.Bytes(), &ea))
	require.NoError(t, json.Unmarshal(b.Bytes(), &eb))
	require.NotEqual(t, ea["run_id"], eb["run_id"])
}
