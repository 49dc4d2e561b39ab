package app

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/hellogpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsPriority(t *testing.T) {
	path := writeConfig(t, "width: 800\nheight: 600\nshader_format: spirv\n")

	cfg := DefaultConfig("t", "id")
	err := cfg.ParseFlags("cube", []string{"-config", path, "-height", "700", "-shader-format", "wgsl"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Width, "from the file")
	assert.Equal(t, 700, cfg.Height, "flag beats file")
	assert.Equal(t, "wgsl", cfg.ShaderFormat, "flag beats file")
	assert.Equal(t, "1.0", cfg.Version, "default survives")
}

func TestParseFlagsUnsetFlagsKeepFile(t *testing.T) {
	path := writeConfig(t, "resources: /srv/shaders\nlog_level: warn\n")

	cfg := DefaultConfig("t", "id")
	require.NoError(t, cfg.ParseFlags("triangle", []string{"-config", path}, io.Discard))
	assert.Equal(t, "/srv/shaders", cfg.Resources)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFlagsResourcesFromWorkingDir(t *testing.T) {
	cfg := DefaultConfig("t", "id")
	require.NoError(t, cfg.ParseFlags("cube", []string{"-resources", "shaders"}, io.Discard))

	want, err := filepath.Abs("shaders")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Resources)
	assert.Equal(t, want, cfg.ResourceDir(BasePath()))
}

func TestParseFlagsVerbose(t *testing.T) {
	cfg := DefaultConfig("t", "id")
	require.NoError(t, cfg.ParseFlags("triangle", []string{"-log-level", "error", "-v"}, io.Discard))
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestParseFlagsErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"missing explicit config", []string{"-config", missing}},
		{"bad size", []string{"-width", "0"}},
		{"bad format", []string{"-shader-format", "hlsl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("t", "id")
			assert.Error(t, cfg.ParseFlags("cube", tt.args, io.Discard))
		})
	}

	cfg := DefaultConfig("t", "id")
	err := cfg.ParseFlags("cube", []string{"-config", missing}, io.Discard)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInstallLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		hellogpu.SetLogger(nil)
	})

	cfg := DefaultConfig("t", "id")
	cfg.LogLevel = "warn"
	l := cfg.InstallLogger()

	assert.Same(t, l, slog.Default())
	assert.False(t, hellogpu.Logger().Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, hellogpu.Logger().Enabled(t.Context(), slog.LevelWarn))
}

func TestInstallLoggerReportsSkippedConfig(t *testing.T) {
	prev := slog.Default()
	prevPath := defaultConfigPath
	t.Cleanup(func() {
		slog.SetDefault(prev)
		hellogpu.SetLogger(nil)
		defaultConfigPath = prevPath
	})

	bad := writeConfig(t, "width: [1, 2]\n")
	defaultConfigPath = func() string { return bad }

	cfg := DefaultConfig("t", "id")
	require.NoError(t, cfg.ParseFlags("cube", []string{"-width", "900"}, io.Discard))
	assert.Equal(t, 900, cfg.Width)
	assert.Equal(t, 480, cfg.Height, "malformed file is not applied")

	var out bytes.Buffer
	cfg.installLogger(&out)
	assert.Contains(t, out.String(), "level=WARN")
	assert.Contains(t, out.String(), "ignoring config file")
	assert.Contains(t, out.String(), bad)
}

func TestInstallLoggerQuietWithoutConfig(t *testing.T) {
	prev := slog.Default()
	prevPath := defaultConfigPath
	t.Cleanup(func() {
		slog.SetDefault(prev)
		hellogpu.SetLogger(nil)
		defaultConfigPath = prevPath
	})

	missing := filepath.Join(t.TempDir(), ConfigFilename)
	defaultConfigPath = func() string { return missing }

	cfg := DefaultConfig("t", "id")
	require.NoError(t, cfg.ParseFlags("triangle", nil, io.Discard))

	var out bytes.Buffer
	cfg.installLogger(&out)
	assert.Empty(t, out.String())
}
