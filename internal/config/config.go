package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/extract"
)

const (
	DefaultInput   = "output.log"
	DefaultOutput  = "benchmark.json"
	DefaultSinkEnv = "GITHUB_OUTPUT"

	// SinkEnvOverride names the variable that renames the sink variable.
	SinkEnvOverride = "CYCLE_METRICS_OUTPUT_ENV"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var configValidate = validator.New()

// Config drives one extraction run. Zero values are never used directly;
// Default fills every field.
type Config struct {
	Input     string          `yaml:"input" validate:"required"`
	Output    string          `yaml:"output" validate:"required"`
	SinkEnv   string          `yaml:"sink_env" validate:"required"`
	Ambiguity string          `yaml:"ambiguity" validate:"oneof=first fail"`
	LogLevel  int             `yaml:"log_level" validate:"gte=1,lte=4"`
	LogFile   string          `yaml:"log_file"`
	HistoryDB string          `yaml:"history_db"`
	Grammar   extract.Grammar `yaml:"grammar"`
}

func Default() Config {
	return Config{
		Input:     DefaultInput,
		Output:    DefaultOutput,
		SinkEnv:   DefaultSinkEnv,
		Ambiguity: extract.PolicyFirst,
		LogLevel:  3,
		Grammar:   extract.DefaultGrammar(),
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any) and
// the environment. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if name := os.Getenv(SinkEnvOverride); name != "" {
		cfg.SinkEnv = name
	}
	return cfg, nil
}

// SinkPath returns the CI output file named by the sink variable, or "" when
// the variable is unset.
func (c Config) SinkPath() string {
	return os.Getenv(c.SinkEnv)
}

// Validate checks field constraints and the grammar. Patterns are
// configurable, the metric names and their order are not.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fieldErrors(err))
	}
	if names := c.Grammar.MetricNames(); !slices.Equal(names, domain.MetricOrder) {
		return fmt.Errorf("%w: grammar yields [%s], want [%s]", ErrInvalidConfig,
			strings.Join(names, " "), strings.Join(domain.MetricOrder, " "))
	}
	if _, err := c.Grammar.Compile(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// fieldErrors renders validator failures on one line.
func fieldErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}
