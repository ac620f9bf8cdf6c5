package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/askql/internal/cli/config"
	"github.com/leapstack-labs/askql/internal/tui"
)

// TUIOptions holds options for the tui command.
type TUIOptions struct {
	LogFile string
}

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	opts := &TUIOptions{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen interface",
		Long: `Start a full-screen terminal interface with a question box, the generated
SQL and its verdict, a run button for validated SELECT queries, and a
scrollable results table.

Keys: enter submits, ctrl+r runs the query, pgup/pgdn scroll the results,
esc or ctrl+c quits.

The interface owns the terminal, so logs are discarded unless --log-file (or
tui.log_file in the config) names a file to write them to.`,
		Example: `  askql tui
  askql tui --api-url http://sql-backend:8000 --log-file /tmp/askql.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Write logs to this file while the interface runs")

	return cmd
}

func runTUI(cmd *cobra.Command, opts *TUIOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	logFile := cmdCtx.Cfg.TUI.LogFile
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}

	logger := slog.New(slog.DiscardHandler)
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := tea.LogToFile(logFile, "askql")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logger = config.NewLogger(f, cmdCtx.Cfg)
	}

	// The client logs through the same sink as the interface.
	client, err := newClient(cmdCtx.Cfg, logger)
	if err != nil {
		return err
	}

	model := tui.New(cmd.Context(), client,
		tui.WithLogger(logger),
		tui.WithTitle("askql · "+client.BaseURL()),
	)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
