package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/askql/internal/cli/output"
	"github.com/leapstack-labs/askql/internal/session"
)

const replPrompt = "askql> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Ask questions interactively",
		Long: `Start an interactive prompt. Every line is sent to the backend as a
question; the generated SQL and its verdict are printed, and .run executes the
query when it is a validated SELECT.

Type .help for the list of dot-commands.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	historyFile := cmdCtx.Cfg.HistoryFile
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0750); err != nil {
			cmdCtx.Logger.Warn("history disabled", "path", historyFile, "error", err)
			historyFile = ""
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	repl := newREPL(cmdCtx)
	repl.welcome()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if quit := repl.handleLine(cmd.Context(), line); quit {
			break
		}
	}
	return nil
}

// replSession holds one interactive session: a controller and where its
// views are drawn.
type replSession struct {
	ctrl     *session.Controller
	renderer *output.Renderer
	apiURL   string
}

func newREPL(cmdCtx *CommandContext) *replSession {
	r := cmdCtx.Renderer
	ctrl := session.NewController(cmdCtx.Client,
		session.WithLogger(cmdCtx.Logger),
		session.WithObserver(func(v session.View) {
			if r.EffectiveMode() != output.ModeText {
				return
			}
			switch v.State {
			case session.Generating:
				r.Muted(session.SubmittingLabel)
			case session.Executing:
				r.Muted(session.RunningLabel)
			}
		}),
	)
	return &replSession{ctrl: ctrl, renderer: r, apiURL: cmdCtx.Client.BaseURL()}
}

func (s *replSession) welcome() {
	s.renderer.Printf("askql REPL (backend: %s)\n", s.apiURL)
	s.renderer.Println("Type a question, .run to execute the query, .help for commands, .quit to exit")
	s.renderer.Println("")
}

// handleLine processes one line of input and reports whether to exit.
func (s *replSession) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(ctx, line)
	}

	s.render(s.ctrl.Submit(ctx, line))
	return false
}

func (s *replSession) handleDotCommand(ctx context.Context, line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.renderer.Writer())

	case ".run":
		before := s.ctrl.View()
		if !before.RunEnabled {
			s.renderer.Warning("Nothing to run: ask a question that produces a validated SELECT query first")
			return false
		}
		s.render(s.ctrl.Run(ctx))

	case ".sql":
		v := s.ctrl.View()
		if !v.ResultVisible {
			s.renderer.Warning("No SQL generated yet")
			return false
		}
		v.TableVisible = false
		v.ErrorVisible = false
		s.render(v)

	case ".state":
		v := s.ctrl.View()
		run := "none"
		switch {
		case v.RunEnabled:
			run = "ready"
		case v.RunVisible:
			run = "running"
		}
		s.renderer.Printf("state: %s, run action: %s\n", v.State, run)

	case ".clear":
		s.renderer.Printf("\033[H\033[2J")

	default:
		s.renderer.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (s *replSession) render(v session.View) {
	if err := s.renderer.RenderView(v); err != nil {
		s.renderer.Error(err.Error())
	}
	s.renderer.Println("")
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .run            Execute the generated query
  .sql            Show the current SQL and its verdict
  .state          Show the current UI state
  .help           Show this help message
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Any other line is sent as a question
  - Only validated SELECT queries can be run
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newDotCompleter creates a readline completer for dot-commands.
func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".run"),
		readline.PcItem(".sql"),
		readline.PcItem(".state"),
		readline.PcItem(".help"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
