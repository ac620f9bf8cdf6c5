package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/askql/internal/cli/config"
	"github.com/leapstack-labs/askql/internal/session"
)

// ErrNotRunnable is returned by ask --execute when the generated query has
// no run action.
var ErrNotRunnable = errors.New("generated query is not runnable")

// AskOptions holds options for the ask command.
type AskOptions struct {
	Execute bool
	Input   string
}

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Turn a question into SQL",
		Long: `Send a natural-language question to the backend and print the generated
SQL together with its validation verdict.

With --execute, a validated SELECT query is run as well and the result table
is printed. The question is read from the arguments, from --input, or from
piped standard input.`,
		Example: `  # Generate SQL
  askql ask "top 5 customers by revenue"

  # Generate and run it
  askql ask -x "how many employees are there"

  # Machine-readable output
  askql ask -x -o json "average salary by department"

  # Question from a file or a pipe
  askql ask --input question.txt
  echo "list all departments" | askql ask -x -o csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Execute, "execute", "x", false, "Run the generated query when it is a validated SELECT")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the question from a file")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string, opts *AskOptions) error {
	question, err := readQuestion(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	if strings.TrimSpace(question) == "" {
		// Blank input is ignored, as in the repl and tui.
		config.GetLogger(cmd.Context()).Debug("ignoring blank question")
		return nil
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ctrl := session.NewController(cmdCtx.Client, session.WithLogger(cmdCtx.Logger))

	view := ctrl.Submit(ctx, question)
	if opts.Execute {
		if !view.RunEnabled {
			if err := cmdCtx.Renderer.RenderView(view); err != nil {
				return err
			}
			if view.State == session.TransportError {
				return ErrReported
			}
			return fmt.Errorf("%w: %s", ErrNotRunnable, notRunnableReason(view))
		}
		view = ctrl.Run(ctx)
	}

	if err := cmdCtx.Renderer.RenderView(view); err != nil {
		return err
	}
	if view.ErrorVisible {
		return ErrReported
	}
	return nil
}

func notRunnableReason(v session.View) string {
	if v.VerdictClass != session.ClassSuccess {
		return "validation failed"
	}
	return "only SELECT queries can be run"
}

// readQuestion picks the question source: arguments, then --input, then
// piped stdin.
func readQuestion(cmd *cobra.Command, args []string, input string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no question given (pass it as arguments, --input, or on stdin)")
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), nil
}
