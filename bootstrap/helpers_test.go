package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, sugar, err := NewLogger("warn", zapcore.AddSync(&buf))
	require.NoError(t, err)
	require.NotNil(t, logger)

	sugar.Info("hidden")
	sugar.Warnw("shown", "key", "value")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"key": "value"`)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, _, err := NewLogger("loud", zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "alertscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input:\n  path: alerts.json\n"), 0o600))

	cfg, err := InitConfig(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, "alerts.json", cfg.Input.Path)

	viper.Reset()
	_, err = InitConfig(filepath.Join(t.TempDir(), "missing.yaml"), zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestCheckInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))

	assert.NoError(t, CheckInput(file))

	err := CheckInput("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALERTSCOPE_INPUT_PATH")

	err = CheckInput(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	err = CheckInput(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestEnsureOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	abs, err := EnsureOutputDir(dir, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
	assert.DirExists(t, abs)

	entries, err := os.ReadDir(abs)
	require.NoError(t, err)
	assert.Empty(t, entries, "write test file is removed")
}

func TestEnsureOutputDir_FileInTheWay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := EnsureOutputDir(file, zap.NewNop().Sugar())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Remediation"))
}

func TestClassifyInputError(t *testing.T) {
	assert.Equal(t, "", ClassifyInputError(nil, "x"))

	_, err := os.Stat(filepath.Join(t.TempDir(), "nope"))
	msg := ClassifyInputError(err, "nope")
	assert.Contains(t, msg, "does not exist")
	assert.Contains(t, msg, "Remediation")

	msg = ClassifyInputError(os.ErrPermission, "secret.json")
	assert.Contains(t, msg, "permission denied")
}
