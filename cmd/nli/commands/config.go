package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/neurlang/nli/config"
	"github.com/neurlang/nli/parallel"
)

type configKey struct{}

// LoadConfig loads the configuration named by --config, applies the logging
// flags on top of it and stores it in the command context for Config.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON, _ = cmd.Flags().GetBool("log-json")
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.Experiment.Threads = parallel.Threads(cfg.Experiment.Threads)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
	return cfg, nil
}

// Config returns the configuration loaded for cmd, loading it when no
// pre-run did.
func Config(cmd *cobra.Command) (*config.Config, error) {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg, nil
		}
	}
	return LoadConfig(cmd)
}
