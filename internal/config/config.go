package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration written as "5m" or "90s" in config files
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `toml:"listen_addr"`
	Debug      bool   `toml:"debug"`

	// Directories
	DataDirectory string `toml:"data_directory"`

	// Plan cache; Redis is used when RedisAddr is set
	RedisAddr string   `toml:"redis_addr"`
	CacheTTL  Duration `toml:"cache_ttl"`

	// Password unlocks encrypted storage at startup. Only read from the environment.
	Password string `toml:"-"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:    ":8080",
		DataDirectory: filepath.Join(wd, "data"),
		CacheTTL:      Duration{5 * time.Minute},
	}
}

// Load builds configuration from defaults, then the optional TOML file named
// by PAYOFF_CONFIG, then PAYOFF_* environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("PAYOFF_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.ensureDirectories()
	return cfg, nil
}

// loadFile overlays values from a TOML file; keys it omits keep their current value
func (c *Config) loadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: config file %s not found, using defaults", path)
			return nil
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if addr := os.Getenv("PAYOFF_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if debug := os.Getenv("PAYOFF_DEBUG"); debug == "true" || debug == "1" {
		c.Debug = true
	}
	if dataDir := os.Getenv("PAYOFF_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if redisAddr := os.Getenv("PAYOFF_REDIS_ADDR"); redisAddr != "" {
		c.RedisAddr = redisAddr
	}
	if ttl := os.Getenv("PAYOFF_CACHE_TTL"); ttl != "" {
		if err := c.CacheTTL.UnmarshalText([]byte(ttl)); err != nil {
			return fmt.Errorf("invalid PAYOFF_CACHE_TTL %q: %w", ttl, err)
		}
	}
	c.Password = os.Getenv("PAYOFF_PASSWORD")
	return nil
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories() {
	if err := os.MkdirAll(c.DataDirectory, 0755); err != nil {
		log.Printf("Warning: could not create directory %s: %v", c.DataDirectory, err)
	}
}
