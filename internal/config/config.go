// Package config loads host settings from an optional YAML file with
// MORPHIC_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g.
// MORPHIC_WINDOW_WIDTH or MORPHIC_SCHEDULER_IDLE_STEP.
const EnvPrefix = "MORPHIC"

type WindowConfig struct {
	Width  int    `yaml:"width" envconfig:"WIDTH"`
	Height int    `yaml:"height" envconfig:"HEIGHT"`
	Title  string `yaml:"title" envconfig:"TITLE"`
	TPS    int    `yaml:"tps" envconfig:"TPS"`
}

type SchedulerConfig struct {
	IdleStep time.Duration `yaml:"idle_step" envconfig:"IDLE_STEP"`
	MinStep  time.Duration `yaml:"min_step" envconfig:"MIN_STEP"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	File   string `yaml:"file" envconfig:"FILE"`
}

type Config struct {
	Window    WindowConfig    `yaml:"window" envconfig:"WINDOW"`
	Scheduler SchedulerConfig `yaml:"scheduler" envconfig:"SCHEDULER"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Debug     bool            `yaml:"debug" envconfig:"DEBUG"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Window:    WindowConfig{Width: 800, Height: 800, Title: "morphic", TPS: 60},
		Scheduler: SchedulerConfig{IdleStep: 500 * time.Millisecond, MinStep: time.Millisecond},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load starts from Defaults, applies the YAML file at path if it exists,
// then applies environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("config: tps %d must be positive", c.Window.TPS)
	}
	if c.Scheduler.MinStep <= 0 {
		return fmt.Errorf("config: min step %v must be positive", c.Scheduler.MinStep)
	}
	if c.Scheduler.IdleStep < c.Scheduler.MinStep {
		return fmt.Errorf("config: idle step %v is shorter than min step %v", c.Scheduler.IdleStep, c.Scheduler.MinStep)
	}
	return nil
}

// Save writes c as YAML to path.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
