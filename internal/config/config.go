package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/lexctrace/internal/runtime"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// DefaultFiles are probed, in order, when no config path is given.
var DefaultFiles = []string{".lexctrace.yaml", ".lexctrace.yml", ".lexctrace.toml"}

// Config holds every tunable of a run. Flags override file values.
// A MaxDepth or StepBudget of zero disables that search guard.
type Config struct {
	Root       string        `mapstructure:"root" yaml:"root" validate:"required"`
	MaxDepth   int           `mapstructure:"max_depth" yaml:"max_depth" validate:"gte=0"`
	StepBudget int           `mapstructure:"step_budget" yaml:"step_budget" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	Lenient    bool          `mapstructure:"lenient" yaml:"lenient"`
	Format     string        `mapstructure:"format" yaml:"format" validate:"oneof=mermaid mmd dot gv pdf svg png"`
	Report     string        `mapstructure:"report" yaml:"report" validate:"oneof=text json yaml"`
	DotBinary  string        `mapstructure:"dot_binary" yaml:"dot_binary" validate:"required"`
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`

	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http" yaml:"http"`
}

// RedisConfig configures the optional trace cache of the HTTP server.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:       domain.DefaultRoot,
		MaxDepth:   runtime.DefaultMaxDepth,
		StepBudget: runtime.DefaultStepBudget,
		Format:     "mermaid",
		Report:     "text",
		DotBinary:  "dot",
		LogLevel:   "warn",
		Redis: RedisConfig{
			TTL:    24 * time.Hour,
			Prefix: "lexctrace:trace:",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the config file at path on top of the defaults. An empty path
// probes DefaultFiles in the working directory; finding none is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range DefaultFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode merges a generic map (from YAML, TOML or flags) into cfg.
// Durations may be given as strings ("5s") and numbers as strings.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Errorf("field %q: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return &domain.AggregateError{Errors: msgs}
		}
		return err
	}
	return nil
}
