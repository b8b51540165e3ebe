// Package config loads the adaptest configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/adaptest/internal/flash"
	"github.com/abhisek/adaptest/internal/scoring"
	"github.com/abhisek/adaptest/internal/smartrandom"
)

var validate = validator.New()

// Config is the full application configuration.
type Config struct {
	Flash       flash.Config       `yaml:"flash"`
	SmartRandom smartrandom.Config `yaml:"smart_random"`
	Scoring     scoring.Config     `yaml:"scoring"`
	Rescoring   RescoringConfig    `yaml:"rescoring"`
	Log         LogConfig          `yaml:"log"`
	Store       StoreConfig        `yaml:"store"`
}

// RescoringConfig configures batch rescoring.
type RescoringConfig struct {
	// Concurrency bounds the assessments rescored in parallel.
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=64"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// StoreConfig locates the database. An empty path means the default location.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Flash:       flash.DefaultConfig(),
		SmartRandom: smartrandom.DefaultConfig(),
		Scoring:     scoring.DefaultConfig(),
		Rescoring:   RescoringConfig{Concurrency: 4},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Path returns the config file named by ADAPTEST_CONFIG, if any.
func Path() string {
	return os.Getenv("ADAPTEST_CONFIG")
}

func decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file decodes to io.EOF and keeps the defaults.
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables, leaving unset values
// untouched.
func (c *Config) ApplyEnv() error {
	if p := os.Getenv("ADAPTEST_DB"); p != "" {
		c.Store.Path = p
	}
	if l := os.Getenv("ADAPTEST_LOG_LEVEL"); l != "" {
		c.Log.Level = l
	}
	if f := os.Getenv("ADAPTEST_LOG_FORMAT"); f != "" {
		c.Log.Format = f
	}
	if v := os.Getenv("ADAPTEST_RESCORE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADAPTEST_RESCORE_CONCURRENCY: %w", err)
		}
		c.Rescoring.Concurrency = n
	}
	return nil
}

// Validate checks struct constraints and each component's own rules.
func (c Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		errs = append(errs, err)
	}
	if err := c.Flash.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("flash: %w", err))
	}
	if err := c.SmartRandom.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("smart_random: %w", err))
	}
	if _, err := scoring.NewScorer(c.Scoring); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
