// Package config reads runtime settings from ABILITIES_* environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the demo and the headless runner.
type Config struct {
	LogLevel  string `env:"ABILITIES_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ABILITIES_LOG_FORMAT" envDefault:"text"`
	// LogFile receives the demo's log output; the terminal UI owns stdout.
	LogFile string `env:"ABILITIES_LOG_FILE"`

	TickRate    int    `env:"ABILITIES_TICK_RATE" envDefault:"10"`
	CatalogPath string `env:"ABILITIES_CATALOG"`

	StartingMana     float32 `env:"ABILITIES_STARTING_MANA" envDefault:"100"`
	StartingGrenades uint16  `env:"ABILITIES_STARTING_GRENADES" envDefault:"3"`

	SessionLog bool `env:"ABILITIES_SESSION_LOG" envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("tick rate must be within 1..1000, got %d", c.TickRate)
	}
	if c.StartingMana < 0 {
		return fmt.Errorf("starting mana must not be negative, got %v", c.StartingMana)
	}
	return nil
}
