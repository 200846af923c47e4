// Package config loads the service configuration.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file named by CONFIG_FILE, then environment variables. A
// local .env file is loaded into the environment first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const minSecretLength = 32

// Config is the full runtime configuration.
type Config struct {
	Port         string        `yaml:"port"`
	DatabasePath string        `yaml:"database_path"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	BcryptCost   int           `yaml:"bcrypt_cost"`
	CookieSecure bool          `yaml:"cookie_secure"`
	LogLevel     string        `yaml:"log_level"`

	AuthRatePerSecond float64 `yaml:"auth_rate_per_second"`
	AuthRateBurst     int     `yaml:"auth_rate_burst"`

	AssumedFirstMilestoneWeek int `yaml:"assumed_first_milestone_week"`
	DefaultWeek               int `yaml:"default_week"`
}

// Default returns the configuration used when nothing overrides it. The JWT
// secret has no default.
func Default() Config {
	return Config{
		Port:                      "8080",
		DatabasePath:              "bump-journal.db",
		TokenTTL:                  7 * 24 * time.Hour,
		BcryptCost:                12,
		CookieSecure:              true,
		LogLevel:                  "info",
		AuthRatePerSecond:         0.5,
		AuthRateBurst:             10,
		AssumedFirstMilestoneWeek: 8,
		DefaultWeek:               20,
	}
}

// Load reads .env, the optional YAML file and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(os.Getenv)
}

// LoadFrom builds the configuration from defaults, the YAML file named by
// CONFIG_FILE and the variables returned by getenv, then validates it.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	// Secure cookies stay on unless explicitly disabled for local development.
	if v := getenv("COOKIE_SECURE"); v != "" {
		c.CookieSecure = v != "false"
	}

	if v := getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		c.TokenTTL = d
	}
	if v := getenv("AUTH_RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid AUTH_RATE_PER_SECOND: %w", err)
		}
		c.AuthRatePerSecond = f
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BCRYPT_COST", &c.BcryptCost},
		{"AUTH_RATE_BURST", &c.AuthRateBurst},
		{"ASSUMED_FIRST_MILESTONE_WEEK", &c.AssumedFirstMilestoneWeek},
		{"DEFAULT_WEEK", &c.DefaultWeek},
	}
	for _, e := range ints {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.dst = n
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case len(c.JWTSecret) < minSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength)
	case c.Port == "":
		return errors.New("PORT is required")
	case c.DatabasePath == "":
		return errors.New("DATABASE_PATH is required")
	case c.BcryptCost < 4 || c.BcryptCost > 14:
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	case c.TokenTTL <= 0:
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	case c.AuthRatePerSecond <= 0:
		return fmt.Errorf("AUTH_RATE_PER_SECOND must be positive, got %g", c.AuthRatePerSecond)
	case c.AuthRateBurst < 1:
		return fmt.Errorf("AUTH_RATE_BURST must be at least 1, got %d", c.AuthRateBurst)
	case c.AssumedFirstMilestoneWeek < 1 || c.AssumedFirstMilestoneWeek > 40:
		return fmt.Errorf("ASSUMED_FIRST_MILESTONE_WEEK must be between 1 and 40, got %d", c.AssumedFirstMilestoneWeek)
	case c.DefaultWeek < 1 || c.DefaultWeek > 40:
		return fmt.Errorf("DEFAULT_WEEK must be between 1 and 40, got %d", c.DefaultWeek)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
