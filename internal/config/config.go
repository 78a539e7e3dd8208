// Package config loads dealcast settings and holds the stage probability table.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override, e.g. DEALCAST_THEME.
const EnvPrefix = "DEALCAST"

// Config holds all dealcast configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds forecasting preferences.
type GeneralConfig struct {
	// DefaultAction is the disposition a deal starts with before the user picks one.
	DefaultAction string `toml:"default_action"`
	// DefaultPeriod is a year-relative selector: "Q2", "Q3", "Q4" or "FY".
	// Empty selects the first offered period.
	DefaultPeriod string `toml:"default_period,omitempty"`
	Sheet         string `toml:"sheet,omitempty"`
	LogLevel      string `toml:"log_level,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `dealcast serve`.
type ServerConfig struct {
	Addr              string `toml:"addr"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	MaxUploadMB       int    `toml:"max_upload_mb"`
}

// SessionTTL returns the idle lifetime of an uploaded deal set.
func (s ServerConfig) SessionTTL() time.Duration {
	if s.SessionTTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// MaxUploadBytes returns the upload size limit.
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

// envOverrides are read with envconfig after the file, so the environment wins.
type envOverrides struct {
	DefaultAction string `split_words:"true"`
	DefaultPeriod string `split_words:"true"`
	Sheet         string
	LogLevel      string `split_words:"true"`
	Theme         string
	ServerAddr    string        `split_words:"true"`
	SessionTTL    time.Duration `split_words:"true"`
	MaxUploadMB   int           `split_words:"true"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultAction: "win",
			LogLevel:      "warn",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8788",
			SessionTTLMinutes: 120,
			MaxUploadMB:       10,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dealcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dealcast")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "dealcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "dealcast")
}

// CachePath returns the full path to the disposition memory database.
func CachePath() string {
	return filepath.Join(CacheDir(), "dealcast.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	if env.DefaultAction != "" {
		cfg.General.DefaultAction = env.DefaultAction
	}
	if env.DefaultPeriod != "" {
		cfg.General.DefaultPeriod = env.DefaultPeriod
	}
	if env.Sheet != "" {
		cfg.General.Sheet = env.Sheet
	}
	if env.LogLevel != "" {
		cfg.General.LogLevel = env.LogLevel
	}
	if env.Theme != "" {
		cfg.Appearance.Theme = env.Theme
	}
	if env.ServerAddr != "" {
		cfg.Server.Addr = env.ServerAddr
	}
	if env.SessionTTL > 0 {
		cfg.Server.SessionTTLMinutes = int(env.SessionTTL / time.Minute)
	}
	if env.MaxUploadMB > 0 {
		cfg.Server.MaxUploadMB = env.MaxUploadMB
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
