// Package commands implements the askql subcommands.
package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/askql/internal/api"
	"github.com/leapstack-labs/askql/internal/cli/config"
	"github.com/leapstack-labs/askql/internal/cli/output"
)

// ErrReported marks a failure whose message was already shown to the user.
// The root command exits non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// UserAgent is sent with every backend request. The root command sets it to
// include the build version.
var UserAgent = "askql"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Client   *api.Client
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a backend client and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Client:   client,
		Renderer: newRenderer(cmd, cfg),
	}, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		UserAgent: UserAgent,
		Logger:    logger,
	})
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *output.Renderer {
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		r.DisableColor()
	}
	return r
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// defaults with ASKQL_API_URL applied.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := config.Default()
	if url := os.Getenv("ASKQL_API_URL"); url != "" {
		cfg.APIURL = url
	}
	return cfg
}
