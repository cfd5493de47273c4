package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultTickRate           = 16667 * time.Microsecond // 60 Hz
	defaultMaxCommandsPerTick = 1000
	defaultWorldID            = "world"
)

// Config configures an App.
type Config struct {
	TickRate           time.Duration `env:"SUPERSTATE_TICK_RATE"`
	MaxCommandsPerTick int           `env:"SUPERSTATE_MAX_COMMANDS_PER_TICK"`
	WorldID            string        `env:"SUPERSTATE_WORLD_ID"`
}

// LoadConfig reads a Config from the environment. Unset fields take their
// defaults in New.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}
	if c.MaxCommandsPerTick <= 0 {
		c.MaxCommandsPerTick = defaultMaxCommandsPerTick
	}
	if c.WorldID == "" {
		c.WorldID = defaultWorldID
	}
	return c
}
