package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/internal/config"
	"github.com/aretw0/lexctrace/internal/logging"
	"github.com/aretw0/lexctrace/pkg/adapters/file"
	"github.com/aretw0/lexctrace/pkg/adapters/process"
)

// persistentKeys maps the root flags onto config keys.
var persistentKeys = map[string]string{
	"root":        "root",
	"lenient":     "lenient",
	"max-depth":   "max_depth",
	"step-budget": "step_budget",
	"timeout":     "timeout",
	"log-level":   "log_level",
}

// loadConfig reads the config file and lays every changed flag on top.
// local maps command specific flags onto dotted config keys.
func loadConfig(cmd *cobra.Command, local map[string]string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	raw := map[string]any{}
	collect := func(flag, key string) {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			return
		}
		setKey(raw, strings.Split(key, "."), f.Value.String())
	}
	for flag, key := range persistentKeys {
		collect(flag, key)
	}
	for flag, key := range local {
		collect(flag, key)
	}

	if err := config.Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func setKey(raw map[string]any, path []string, value string) {
	if len(path) == 1 {
		raw[path[0]] = value
		return
	}
	child, ok := raw[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		raw[path[0]] = child
	}
	setKey(child, path[1:], value)
}

func newLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, false), nil
}

// newEngine loads the lexicon at path with the options cfg describes.
func newEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, path string, extra ...lexctrace.Option) (*lexctrace.Engine, error) {
	opts := []lexctrace.Option{
		lexctrace.WithRoot(cfg.Root),
		lexctrace.WithLogger(logger),
		lexctrace.WithMaxDepth(cfg.MaxDepth),
		lexctrace.WithStepBudget(cfg.StepBudget),
		lexctrace.WithTimeout(cfg.Timeout),
		lexctrace.WithLenient(cfg.Lenient),
		lexctrace.WithRenderer(process.NewRenderer(process.WithBinary(cfg.DotBinary))),
	}
	opts = append(opts, extra...)
	return lexctrace.New(ctx, file.NewSource(path), opts...)
}
