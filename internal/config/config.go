package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/motion"
	"github.com/san-kum/armsim/internal/sim"
)

const (
	DefaultLogDir  = "logs"
	DefaultDataDir = "data"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Arm    arm.Config  `yaml:"arm"`
	Motion motion.Sine `yaml:"motion"`
	Run    sim.Config  `yaml:"run"`
	Log    LogConfig   `yaml:"log"`
}

type LogConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		Arm:    arm.DefaultConfig(),
		Motion: motion.DefaultSine(),
		Run:    sim.DefaultConfig(),
		Log: LogConfig{
			Dir: DefaultLogDir,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	return Merge(path, DefaultConfig())
}

// Merge reads a YAML file on top of base, leaving base itself untouched.
func Merge(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Arm.Validate(); err != nil {
		return err
	}
	if err := c.Motion.Validate(); err != nil {
		return err
	}
	return c.Run.Validate()
}
