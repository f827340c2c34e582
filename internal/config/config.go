// Package config handles all configuration logic for screenpower.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dsrosen6/screenpower/internal/bus"
)

const (
	cfgDirName  = "screenpower"
	cfgFileName = "config.json"
	envPrefix   = "SCREENPOWER"
	sockName    = "screenpower.sock"

	reloadDelay = 50 * time.Millisecond
)

var sleep = time.Sleep

type Config struct {
	path string
	v    *viper.Viper

	// Bus is "session" or "system".
	Bus string `mapstructure:"bus"`
	// Mode is "signal" or "call".
	Mode string `mapstructure:"mode"`
	// DPMS makes the daemon switch outputs off/on itself around the
	// forwarded transitions.
	DPMS     bool   `mapstructure:"dpms"`
	LogLevel string `mapstructure:"log_level"`
	Socket   string `mapstructure:"socket"`
}

// DefaultPath is $XDG_CONFIG_HOME/screenpower/config.json.
func DefaultPath() (string, error) {
	uc, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory path: %w", err)
	}

	return filepath.Join(uc, cfgDirName, cfgFileName), nil
}

// DefaultSocket is where the daemon listens for CLI commands.
func DefaultSocket() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}

	return filepath.Join(dir, sockName)
}

// InitConfig reads the config at path, creating it with defaults first if it
// does not exist. An empty path means DefaultPath.
func InitConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := newViper(path)
	if _, err := os.Stat(path); err != nil {
		slog.Info("no config file found; creating default", "path", path)
		if err := writeDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config file: %w", err)
		}
	}

	c := &Config{path: path, v: v}
	if err := c.read(); err != nil {
		return nil, err
	}

	return c, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bus", string(bus.KindSession))
	v.SetDefault("mode", string(bus.ModeSignal))
	v.SetDefault("dpms", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("socket", "")
}

// writeDefault writes the built-in defaults only. Env overrides stay
// overrides and never end up in the file.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("checking and/or creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func (c *Config) read() error {
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var next Config
	if err := c.v.Unmarshal(&next); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	if err := next.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	c.Bus = next.Bus
	c.Mode = next.Mode
	c.DPMS = next.DPMS
	c.LogLevel = next.LogLevel
	c.Socket = next.Socket
	return nil
}

// Reload re-reads the file. Editors often write in several steps, so a read
// that fails is retried up to retries times before giving up; the previous
// values are kept on failure.
func (c *Config) Reload(retries int) error {
	var err error
	for i := 0; i <= retries; i++ {
		if err = c.read(); err == nil {
			return nil
		}
		slog.Debug("config reload attempt failed", "attempt", i+1, "error", err)
		if i < retries {
			sleep(reloadDelay)
		}
	}

	return err
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := bus.ParseKind(c.Bus); err != nil {
		errs = append(errs, err)
	}

	if _, err := bus.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Config) Path() string {
	return c.path
}

// SocketPath is the configured command socket, or DefaultSocket.
func (c *Config) SocketPath() string {
	if c.Socket != "" {
		return c.Socket
	}

	return DefaultSocket()
}

func (c *Config) BusKind() bus.Kind {
	k, _ := bus.ParseKind(c.Bus)
	return k
}

func (c *Config) BusMode() bus.Mode {
	m, _ := bus.ParseMode(c.Mode)
	return m
}

func (c *Config) Level() slog.Level {
	l, _ := ParseLogLevel(c.LogLevel)
	return l
}

// ParseLogLevel converts a level name to a slog.Level. An empty string is info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
