package config

import (
	"fmt"
	"os"

	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/spring"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSpringMode = animator.Regenerate
	DefaultWorkers    = 0 // one per CPU
	DefaultLogLevel   = "info"
)

type Config struct {
	Constants  kinematics.Constants `yaml:"constants"`
	Resolution spring.Resolution    `yaml:"resolution"`
	Springs    animator.SpringMode  `yaml:"springs"`
	Workers    int                  `yaml:"workers"`
	Log        LogConfig            `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Constants:  kinematics.DefaultConstants(),
		Resolution: spring.DefaultResolution(),
		Springs:    DefaultSpringMode,
		Workers:    DefaultWorkers,
		Log:        LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a YAML file over the defaults, so partial files are fine.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file over cfg. Keys missing from the file keep their
// current values.
func LoadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Resolution.Validate(); err != nil {
		return err
	}
	if _, err := animator.ParseSpringMode(string(c.Springs)); err != nil {
		return err
	}
	if c.Constants.L1 <= 0 || c.Constants.L2 <= 0 {
		return fmt.Errorf("link lengths must be positive, got l1=%g l2=%g", c.Constants.L1, c.Constants.L2)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
