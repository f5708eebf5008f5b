// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"tilerate/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Tariffs contains tariff data locations
	Tariffs TariffConfig `json:"tariffs"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Pricing contains engine defaults
	Pricing PricingConfig `json:"pricing"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// TariffConfig locates the tariff and catalog data files
type TariffConfig struct {
	// Directory holds the tariff data files (extras.json, helios_es.json,
	// hermes_it.json, groupage.json, slabs.json)
	Directory string `json:"directory"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// PricingConfig contains engine defaults applied at the request boundary
type PricingConfig struct {
	// DefaultKgPerM2 is the assumed product weight per square meter when a
	// request omits its own override
	DefaultKgPerM2 float64 `json:"default_kg_per_m2"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Tariffs: TariffConfig{
			Directory: "tariffs",
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
		Pricing: PricingConfig{
			DefaultKgPerM2: 24.0,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
