package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/vidcapinv"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	p := writeFile(t, t.TempDir(), "custom.yaml", `
backend: V4L2
device_dir: /tmp/devs
probe_concurrency: 2
timeout: 3s
log:
  level: debug
  format: json
`)

	cfg, err := Load(p, nil)
	require.NoError(t, err)

	assert.Equal(t, vidcapinv.BackendV4L2, cfg.Backend)
	assert.Equal(t, "/tmp/devs", cfg.DeviceDir)
	assert.Equal(t, 2, cfg.ProbeConcurrency)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	isolate(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	writeFile(t, wd, "vidcapinv.yaml", "platform: Windows 10\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "Windows 10", cfg.Platform)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	p := writeFile(t, t.TempDir(), "c.yaml", "device_dir: /from/file\nlog:\n  level: warn\n")
	t.Setenv("VIDCAPINV_DEVICE_DIR", "/from/env")
	t.Setenv("VIDCAPINV_LOG_LEVEL", "error")

	cfg, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DeviceDir)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("VIDCAPINV_BACKEND", "native")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("backend", "", "")
	fs.Duration("timeout", 0, "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse([]string{"--backend", "v4l2", "--timeout", "250ms"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, vidcapinv.BackendV4L2, cfg.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	// unset flags fall through to the default
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	p := writeFile(t, t.TempDir(), "bad.yaml", "backend: directshow\n")

	_, err := Load(p, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directshow")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"native", func(c *Config) { c.Backend = vidcapinv.BackendNative }, false},
		{"unknown backend", func(c *Config) { c.Backend = "mf" }, true},
		{"zero concurrency", func(c *Config) { c.ProbeConcurrency = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptionsDriveInventory(t *testing.T) {
	cfg := Default()
	cfg.Platform = "Plan 9"

	_, err := vidcapinv.Get(cfg.Options()...)
	assert.ErrorIs(t, err, vidcapinv.ErrUnsupportedPlatform)

	cfg = Default()
	cfg.Platform = "linux"
	cfg.DeviceDir = t.TempDir()
	inv, err := vidcapinv.Get(cfg.Options()...)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}
