package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core"
	"github.com/skillstore/skillstore/internal/core/agent"
	"github.com/skillstore/skillstore/internal/core/api"
	"github.com/skillstore/skillstore/internal/tui"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *core.ConfigManager
	settings core.Settings
	runtime  core.Runtime
	logger   *slog.Logger
	client   *api.Client
	registry *agent.Registry
	service  *core.Service
	cwd      string
}

// newDeps loads configuration and wires the service. Called lazily by
// commands that need it.
func newDeps(cmd *cobra.Command) (*deps, error) {
	config := core.NewConfigManager()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	rt, err := cfg.Resolve(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("resolving config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if rt.LogLevel, err = core.ParseLevel(lvl); err != nil {
			return nil, err
		}
	}

	logger := core.NewLogger(
		core.WithLogLevel(rt.LogLevel),
		core.WithLogFormat(rt.LogFormat),
		core.WithLogOutput(cmd.ErrOrStderr()),
	)

	paths, err := core.DefaultPaths()
	if err != nil {
		return nil, err
	}
	cwd, err := resolveTargetDir(cmd)
	if err != nil {
		return nil, err
	}

	client := api.New(api.Options{
		BaseURL: rt.APIURL,
		Timeout: rt.Timeout,
		Logger:  logger,
	})
	registry := agent.NewRegistry(paths.Home)

	return &deps{
		config:   config,
		settings: cfg.Settings,
		runtime:  rt,
		logger:   logger,
		client:   client,
		registry: registry,
		cwd:      cwd,
		service: core.NewService(core.ServiceOptions{
			Runtime:  rt,
			Paths:    paths,
			Registry: registry,
			Client:   client,
			Cwd:      cwd,
			Logger:   logger,
		}),
	}, nil
}

// reporter returns the status reporter for cmd's output.
func (d *deps) reporter(cmd *cobra.Command) tui.Reporter {
	out := cmd.OutOrStdout()
	return tui.NewReporter(out, isTerminal(out))
}
