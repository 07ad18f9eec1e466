package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/proxymancer/internal/layout"
	"github.com/arcanaland/proxymancer/internal/scryfall"
)

// Version is reported in the User-Agent header
const Version = "0.3.0"

// Config represents the application configuration
type Config struct {
	Layout         string  `toml:"layout"`
	GridPaddingMM  float64 `toml:"grid_padding_mm"`
	GridCols       int     `toml:"grid_cols"`
	GridRows       int     `toml:"grid_rows"`
	APIBaseURL     string  `toml:"api_base_url"`
	ImageVariant   string  `toml:"image_variant"`
	RequestDelayMS int     `toml:"request_delay_ms"`
	HTTPTimeoutS   int     `toml:"http_timeout_s"`
	MaxDPI         float64 `toml:"max_dpi"`
	UserAgent      string  `toml:"user_agent"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Layout:         layout.SingleName,
		GridPaddingMM:  0,
		GridCols:       layout.DefaultGrid.Cols,
		GridRows:       layout.DefaultGrid.Rows,
		APIBaseURL:     scryfall.DefaultBaseURL,
		ImageVariant:   scryfall.DefaultImageVariant,
		RequestDelayMS: 50,
		HTTPTimeoutS:   0,
		MaxDPI:         0,
		UserAgent:      "proxymancer/" + Version,
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "proxymancer", "config.toml")
}

// LoadConfig loads the config file, creating it with defaults if missing
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	return LoadFile(configPath)
}

// LoadFile loads the config at configPath, which must exist. Keys missing
// from the file keep their default values.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// Init writes a default config file at configPath unless one exists.
// It reports whether a file was created.
func Init(configPath string) (bool, error) {
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("error reading config file: %w", err)
	}

	if _, err := createDefaultConfig(configPath); err != nil {
		return false, err
	}
	return true, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()

	// Create the file
	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}

	return config, nil
}

// Validate checks the values a run depends on
func (c *Config) Validate() error {
	if err := c.Grid().Validate(); err != nil {
		return err
	}
	if _, err := layout.Named(c.Layout, c.Grid()); err != nil {
		return err
	}
	if c.ImageVariant == "" {
		return fmt.Errorf("image_variant cannot be empty")
	}
	if c.RequestDelayMS < 0 {
		return fmt.Errorf("request_delay_ms cannot be negative")
	}
	if c.HTTPTimeoutS < 0 {
		return fmt.Errorf("http_timeout_s cannot be negative")
	}
	if c.MaxDPI < 0 {
		return fmt.Errorf("max_dpi cannot be negative")
	}
	return nil
}

// Grid returns the grid layout described by the config
func (c *Config) Grid() layout.Grid {
	return layout.Grid{Cols: c.GridCols, Rows: c.GridRows, Padding: c.GridPaddingMM}
}

// Policy returns the configured layout policy
func (c *Config) Policy() (layout.Policy, error) {
	return layout.Named(c.Layout, c.Grid())
}

// RequestDelay returns the pause between provider requests
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// ScryfallOptions returns the resolver settings
func (c *Config) ScryfallOptions() scryfall.Options {
	return scryfall.Options{
		BaseURL:      c.APIBaseURL,
		ImageVariant: c.ImageVariant,
		UserAgent:    c.UserAgent,
		Timeout:      time.Duration(c.HTTPTimeoutS) * time.Second,
	}
}
