package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarning},
		{"Warning", LevelWarning},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogRespectsCurrentLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(Reinitialize)

	CurrentLevel = LevelWarning
	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warning("shown %d", 3)
	Error("shown %d", 4)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown 3", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "shown 4", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestLogDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(Reinitialize)

	IsEnabled = false
	Error("never written")

	assert.Zero(t, logs.Len())
}

func TestInitWritesRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(Reinitialize)

	require.NoError(t, Init(Options{Format: "json", Dir: dir, Level: LevelInfo}))
	Info("payment types ready")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "payment types ready")
	assert.Contains(t, string(data), `"level":"INFO"`)
}
