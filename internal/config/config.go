package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the persistent application configuration.
// Read-only after Load returns.
type Config struct {
	// Remote catalog
	Catalog CatalogConfig `yaml:"catalog"`

	// Local storage
	Storage StorageConfig `yaml:"storage"`

	// UI Preferences
	UI UIConfig `yaml:"ui"`

	// Logging
	Log LogConfig `yaml:"log"`
}

// CatalogConfig holds PokeAPI client settings.
type CatalogConfig struct {
	BaseURL         string   `yaml:"base_url"`
	Timeout         Duration `yaml:"timeout"`
	RequestsPerSec  float64  `yaml:"requests_per_sec"` // client-side fair-use limit
	RefreshInterval Duration `yaml:"refresh_interval"` // background revalidation; 0 disables
	StaleAfter      Duration `yaml:"stale_after"`      // cached results older than this are refetched
}

// StorageConfig holds the favorites database location.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	PageSize  int  `yaml:"page_size"`
	ShowDebug bool `yaml:"show_debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string `yaml:"level"`
	EventPath string `yaml:"event_path"` // JSONL event log
}

// Duration wraps time.Duration so YAML can carry "30s" style strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DataDir returns ~/.pokedex, the home of the config, database and event log.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pokedex")
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	dir := DataDir()
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:         "https://pokeapi.co/api/v2",
			Timeout:         Duration(30 * time.Second),
			RequestsPerSec:  5,
			RefreshInterval: Duration(5 * time.Minute),
			StaleAfter:      Duration(5 * time.Minute),
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(dir, "pokedex.db"),
		},
		UI: UIConfig{
			PageSize: 20,
		},
		Log: LogConfig{
			Level:     "info",
			EventPath: filepath.Join(dir, "events.jsonl"),
		},
	}
}

// ConfigPath returns the path to the config file.
// POKEDEX_CONFIG overrides the default location.
func ConfigPath() string {
	if p := os.Getenv("POKEDEX_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads configuration with precedence: defaults, YAML file, .env, env vars.
// A missing config file is not an error.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// .env in the working directory is optional
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to path as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from POKEDEX_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("POKEDEX_API_BASE"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv("POKEDEX_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("POKEDEX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POKEDEX_EVENT_LOG"); v != "" {
		c.Log.EventPath = v
	}
	if v := os.Getenv("POKEDEX_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POKEDEX_PAGE_SIZE: %w", err)
		}
		c.UI.PageSize = n
	}
	if v := os.Getenv("POKEDEX_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POKEDEX_REFRESH_INTERVAL: %w", err)
		}
		c.Catalog.RefreshInterval = Duration(d)
	}
	return nil
}

// Validate rejects configurations the app cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		errs = append(errs, errors.New("catalog.base_url is required"))
	}
	if c.UI.PageSize < 1 {
		errs = append(errs, fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize))
	}
	if c.Catalog.RequestsPerSec < 0 {
		errs = append(errs, fmt.Errorf("catalog.requests_per_sec must not be negative, got %v", c.Catalog.RequestsPerSec))
	}
	if c.Catalog.RefreshInterval < 0 {
		errs = append(errs, errors.New("catalog.refresh_interval must not be negative"))
	}
	if c.Storage.DBPath == "" {
		errs = append(errs, errors.New("storage.db_path is required"))
	}
	return errors.Join(errs...)
}
