package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Goals    GoalsConfig
	Quotes   QuotesConfig
	UI       UIConfig
	Metrics  MetricsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// GoalsConfig holds the goals seeded into a new database.
type GoalsConfig struct {
	DailyCalories float64 `mapstructure:"daily_calories"`
	DailyWater    float64 `mapstructure:"daily_water"`
}

// QuotesConfig holds quote source and overlay settings.
type QuotesConfig struct {
	Endpoint      string
	Timeout       time.Duration
	RatePerMinute float64 `mapstructure:"rate_per_minute"`
	Burst         int
	DismissAfter  time.Duration `mapstructure:"dismiss_after"`
	Offline       bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone string
}

// MetricsConfig holds the optional Prometheus listener.
type MetricsConfig struct {
	Addr string
}

// Load reads configuration from file and env. Env var overrides use prefix TRAINERWATCH_.
// An explicit path takes precedence over TRAINERWATCH_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "trainerwatch", "trainerwatch.db"))
	v.SetDefault("goals.daily_calories", 2000)
	v.SetDefault("goals.daily_water", 2000)
	v.SetDefault("quotes.endpoint", "https://zenquotes.io/api/random")
	v.SetDefault("quotes.timeout", "8s")
	v.SetDefault("quotes.rate_per_minute", 10)
	v.SetDefault("quotes.burst", 5)
	v.SetDefault("quotes.dismiss_after", "3s")
	v.SetDefault("quotes.offline", false)
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("TRAINERWATCH_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "trainerwatch"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRAINERWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the app cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Database.Path) == "":
		return fmt.Errorf("%w: database.path is empty", ErrInvalid)
	case c.Goals.DailyCalories <= 0:
		return fmt.Errorf("%w: goals.daily_calories must be positive", ErrInvalid)
	case c.Goals.DailyWater <= 0:
		return fmt.Errorf("%w: goals.daily_water must be positive", ErrInvalid)
	case c.Quotes.DismissAfter <= 0:
		return fmt.Errorf("%w: quotes.dismiss_after must be positive", ErrInvalid)
	case c.Quotes.RatePerMinute < 0 || c.Quotes.Burst < 0:
		return fmt.Errorf("%w: quotes rate limits must not be negative", ErrInvalid)
	}
	return nil
}

// Location resolves the configured timezone, falling back to time.Local.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.UI.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// Save writes the provided config to path (or the default location when empty),
// creating the config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = os.Getenv("TRAINERWATCH_CONFIG")
	}
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "trainerwatch", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("goals.daily_calories", cfg.Goals.DailyCalories)
	v.Set("goals.daily_water", cfg.Goals.DailyWater)
	v.Set("quotes.endpoint", cfg.Quotes.Endpoint)
	v.Set("quotes.timeout", cfg.Quotes.Timeout.String())
	v.Set("quotes.rate_per_minute", cfg.Quotes.RatePerMinute)
	v.Set("quotes.burst", cfg.Quotes.Burst)
	v.Set("quotes.dismiss_after", cfg.Quotes.DismissAfter.String())
	v.Set("quotes.offline", cfg.Quotes.Offline)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("metrics.addr", cfg.Metrics.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
