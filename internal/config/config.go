package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the global ~/.padesk/config.toml.
type Config struct {
	DefaultProfile string        `toml:"default_profile"`
	MetricsAddr    string        `toml:"metrics_addr"`
	API            APIConfig     `toml:"api"`
	Chat           ChatConfig    `toml:"chat"`
	Display        DisplayConfig `toml:"display"`
}

// APIConfig addresses the primary records backend.
type APIConfig struct {
	BaseURL           string        `toml:"base_url"`
	Timeout           time.Duration `toml:"timeout"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	Burst             int           `toml:"burst"`
}

// ChatConfig addresses the messaging backend.
type ChatConfig struct {
	BaseURL      string        `toml:"base_url"`
	APIKey       string        `toml:"api_key"`
	PollInterval time.Duration `toml:"poll_interval"`
}

// DisplayConfig controls how normalized timestamps are rendered.
type DisplayConfig struct {
	TimeZone   string `toml:"time_zone"`
	TimeLayout string `toml:"time_layout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:3000/api",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Chat: ChatConfig{
			BaseURL:      "http://localhost:4000",
			PollInterval: 10 * time.Second,
		},
		Display: DisplayConfig{
			TimeLayout: "Jan 2, 15:04",
		},
	}
}

// Load reads config from the given path on top of Default. Returns nil and error if file missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// ApplyEnv overlays environment variables, loading a .env file from the working
// directory first when one exists.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("PADESK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PADESK_CHAT_URL"); v != "" {
		c.Chat.BaseURL = v
	}
	if v := os.Getenv("PADESK_CHAT_API_KEY"); v != "" {
		c.Chat.APIKey = v
	}
	if v := os.Getenv("PADESK_PROFILE"); v != "" {
		c.DefaultProfile = v
	}
}

// Location resolves the display time zone, falling back to the local zone.
func (d DisplayConfig) Location() *time.Location {
	if d.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
