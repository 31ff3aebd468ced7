package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"Error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"json to stdout", &Config{Level: "info", Format: "json", Output: "stdout"}},
		{"console to stderr", &Config{Level: "debug", Format: "console", Output: "stderr"}},
		{"empty output defaults to stdout", &Config{Level: "warn", Format: "json"}},
		{"custom time format", &Config{Level: "info", Format: "json", Output: "stdout", TimeFormat: "2006-01-02 15:04:05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, log)

			log.Info("logger works")
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	t.Run("creates and appends to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "billing.log")

		log, err := New(&Config{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("invoice created", zap.String("invoice_number", "INV-20260110-ABCDEF12"))
		require.NoError(t, Sync(log))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "invoice created")
		assert.Contains(t, string(data), "INV-20260110-ABCDEF12")
	})

	t.Run("unopenable path is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "nested", "billing.log")

		log, err := New(&Config{Level: "info", Format: "json", Output: path})
		assert.Error(t, err)
		assert.Nil(t, log)
	})
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.log")

	log, err := New(&Config{Level: "error", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("suppressed entry")
	log.Error("kept entry")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "suppressed entry")
	assert.Contains(t, string(data), "kept entry")
}

func TestBuildEncoder(t *testing.T) {
	t.Run("console format yields console encoder", func(t *testing.T) {
		enc := buildEncoder(&Config{Format: "console"})
		require.NotNil(t, enc)

		entry := zapcore.Entry{Level: zapcore.InfoLevel, Message: "hello"}
		buf, err := enc.EncodeEntry(entry, nil)
		require.NoError(t, err)
		// Console output is line-oriented, not JSON
		assert.NotContains(t, buf.String(), `"msg"`)
	})

	t.Run("json format yields json encoder", func(t *testing.T) {
		enc := buildEncoder(&Config{Format: "json"})
		require.NotNil(t, enc)

		entry := zapcore.Entry{Level: zapcore.InfoLevel, Message: "hello"}
		buf, err := enc.EncodeEntry(entry, nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})
}
