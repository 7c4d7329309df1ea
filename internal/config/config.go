package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/fundsift/fundsift/internal/logging"
	"github.com/fundsift/fundsift/internal/validate"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Store   StoreConfig
	Extract ExtractConfig
	Batch   BatchConfig
	Logging logging.Config
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// FetchConfig holds page fetching configuration.
type FetchConfig struct {
	Timeout           time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	RetryMax          int           `envconfig:"FETCH_RETRY_MAX" default:"3"`
	RetryWaitMin      time.Duration `envconfig:"FETCH_RETRY_WAIT_MIN" default:"1s"`
	RetryWaitMax      time.Duration `envconfig:"FETCH_RETRY_WAIT_MAX" default:"30s"`
	RequestsPerSecond float64       `envconfig:"FETCH_RPS" default:"1"`
	Burst             int           `envconfig:"FETCH_BURST" default:"2"`
}

// StoreConfig holds record persistence configuration.
type StoreConfig struct {
	Dir string `envconfig:"STORE_DIR" default:"scraped_data"`
}

// ExtractConfig holds extraction plausibility bounds.
type ExtractConfig struct {
	NAVMin float64 `envconfig:"NAV_MIN" default:"1"`
	NAVMax float64 `envconfig:"NAV_MAX" default:"10000"`
	AUMMin float64 `envconfig:"AUM_MIN" default:"0.1"`
	AUMMax float64 `envconfig:"AUM_MAX" default:"1000000"`
	PEMin  float64 `envconfig:"PE_MIN" default:"5"`
	PEMax  float64 `envconfig:"PE_MAX" default:"100"`
	PBMin  float64 `envconfig:"PB_MIN" default:"0.1"`
	PBMax  float64 `envconfig:"PB_MAX" default:"20"`
}

// Bounds converts the configured limits into validation bounds.
func (c ExtractConfig) Bounds() validate.Bounds {
	return validate.Bounds{
		NAVMin: c.NAVMin, NAVMax: c.NAVMax,
		AUMMin: c.AUMMin, AUMMax: c.AUMMax,
		PEMin: c.PEMin, PEMax: c.PEMax,
		PBMin: c.PBMin, PBMax: c.PBMax,
	}
}

// BatchConfig holds batch job configuration.
type BatchConfig struct {
	Workers int `envconfig:"BATCH_WORKERS" default:"4"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Fetch: FetchConfig{
			Timeout:           30 * time.Second,
			RetryMax:          3,
			RetryWaitMin:      1 * time.Second,
			RetryWaitMax:      30 * time.Second,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Store: StoreConfig{
			Dir: "scraped_data",
		},
		Extract: ExtractConfig{
			NAVMin: 1, NAVMax: 10000,
			AUMMin: 0.1, AUMMax: 1000000,
			PEMin: 5, PEMax: 100,
			PBMin: 0.1, PBMax: 20,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: logging.Config{
			Level:       "info",
			Development: false,
		},
	}
}
