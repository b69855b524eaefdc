// Package config loads vcinventory settings from flags, VIDCAPINV_*
// environment variables and an optional vidcapinv.yaml, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/obinnaokechukwu/vidcapinv"
)

// EnvPrefix prefixes every environment variable, e.g. VIDCAPINV_DEVICE_DIR.
const EnvPrefix = "VIDCAPINV"

// Config holds the resolved settings.
type Config struct {
	Platform         string        `mapstructure:"platform"`
	Backend          string        `mapstructure:"backend"`
	LibraryPath      string        `mapstructure:"library_path"`
	DeviceDir        string        `mapstructure:"device_dir"`
	ProbeConcurrency int           `mapstructure:"probe_concurrency"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Log              LogConfig     `mapstructure:"log"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:          vidcapinv.BackendAuto,
		DeviceDir:        "/dev",
		ProbeConcurrency: 4,
		Timeout:          10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"platform":          "platform",
	"backend":           "backend",
	"library-path":      "library_path",
	"device-dir":        "device_dir",
	"probe-concurrency": "probe_concurrency",
	"timeout":           "timeout",
	"log-level":         "log.level",
	"log-format":        "log.format",
}

// Load resolves the configuration. An empty path searches the working
// directory and the user config directory for vidcapinv.yaml and tolerates
// its absence; an explicit path must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", describeSource(v), err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("platform", d.Platform)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("library_path", d.LibraryPath)
	v.SetDefault("device_dir", d.DeviceDir)
	v.SetDefault("probe_concurrency", d.ProbeConcurrency)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("vidcapinv")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "vidcapinv"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", describeSource(v), err)
	}
	return nil
}

func describeSource(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	return "settings"
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Backend == "" {
		c.Backend = vidcapinv.BackendAuto
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Backend {
	case vidcapinv.BackendAuto, vidcapinv.BackendV4L2, vidcapinv.BackendNative:
	default:
		return fmt.Errorf("config: backend %q must be one of auto, v4l2, native", c.Backend)
	}
	if c.ProbeConcurrency < 1 {
		return fmt.Errorf("config: probe_concurrency must be at least 1, got %d", c.ProbeConcurrency)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: log.format %q must be console or json", c.Log.Format)
	}
	return nil
}

// Options translates the settings into inventory options.
func (c *Config) Options() []vidcapinv.Option {
	opts := []vidcapinv.Option{
		vidcapinv.WithBackendPreference(c.Backend),
		vidcapinv.WithDeviceDir(c.DeviceDir),
		vidcapinv.WithProbeConcurrency(c.ProbeConcurrency),
	}
	if c.Platform != "" {
		opts = append(opts, vidcapinv.WithPlatform(c.Platform))
	}
	if c.LibraryPath != "" {
		opts = append(opts, vidcapinv.WithLibraryPath(c.LibraryPath))
	}
	return opts
}
