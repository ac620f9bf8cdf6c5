package commands

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/askql/internal/api"
	"github.com/leapstack-labs/askql/internal/apitest"
	"github.com/leapstack-labs/askql/internal/cli/config"
	clitest "github.com/leapstack-labs/askql/internal/cli/testutil"
	"github.com/leapstack-labs/askql/internal/testutil"
)

func newTestREPL(t *testing.T, srv *apitest.Server) (*replSession, *clitest.TestRenderer) {
	t.Helper()
	client, err := api.NewClient(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	tr := clitest.NewTestRendererText()
	return newREPL(&CommandContext{
		Cfg:      config.Default(),
		Logger:   testutil.NewTestLogger(t),
		Client:   client,
		Renderer: tr.Renderer,
	}), tr
}

func TestREPL_QuestionThenRun(t *testing.T) {
	srv := customersServer(t)
	repl, tr := newTestREPL(t, srv)
	ctx := context.Background()

	assert.False(t, repl.handleLine(ctx, "top 5 customers by revenue"))
	out := tr.Output()
	assert.Contains(t, out, "Generating...")
	assert.Contains(t, out, "SELECT name, revenue FROM customers LIMIT 5")
	assert.Contains(t, out, apitest.SuccessVerdict)

	tr.Reset()
	assert.False(t, repl.handleLine(ctx, ".run"))
	out = tr.Output()
	assert.Contains(t, out, "Running...")
	assert.Contains(t, out, "(2 rows)")
	assert.Equal(t, []string{"SELECT name, revenue FROM customers LIMIT 5"}, srv.Queries())
}

func TestREPL_RunWithoutAction(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.OnGenerate(func(string) apitest.Response {
		return apitest.Generated("UPDATE t SET x = 1", apitest.SuccessVerdict)
	})
	repl, tr := newTestREPL(t, srv)
	ctx := context.Background()

	repl.handleLine(ctx, ".run")
	repl.handleLine(ctx, "bump x")
	repl.handleLine(ctx, ".run")

	assert.Empty(t, srv.Queries())
	assert.Contains(t, tr.ErrorOutput(), "Nothing to run")
}

func TestREPL_SQLAndState(t *testing.T) {
	srv := customersServer(t)
	repl, tr := newTestREPL(t, srv)
	ctx := context.Background()

	repl.handleLine(ctx, ".sql")
	assert.Contains(t, tr.ErrorOutput(), "No SQL generated yet")

	repl.handleLine(ctx, ".state")
	assert.Contains(t, tr.Output(), "state: idle, run action: none")

	repl.handleLine(ctx, "q")
	tr.Reset()

	repl.handleLine(ctx, ".state")
	assert.Contains(t, tr.Output(), "state: generated, run action: ready")

	tr.Reset()
	repl.handleLine(ctx, ".sql")
	assert.Contains(t, tr.Output(), "SELECT name, revenue FROM customers LIMIT 5")
	assert.Len(t, srv.Questions(), 1, ".sql must not re-ask")
}

func TestREPL_ErrorBanner(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.OnGenerate(func(string) apitest.Response {
		return apitest.Fail(http.StatusBadGateway, "upstream unavailable")
	})
	repl, tr := newTestREPL(t, srv)

	repl.handleLine(context.Background(), "q")
	assert.Contains(t, tr.ErrorOutput(), "upstream unavailable")

	tr.Reset()
	repl.handleLine(context.Background(), ".state")
	assert.Contains(t, tr.Output(), "state: transport_error")
}

func TestREPL_DotCommands(t *testing.T) {
	tests := []struct {
		line    string
		quit    bool
		wantOut string
		wantErr string
	}{
		{line: ".quit", quit: true},
		{line: ".exit", quit: true},
		{line: ".QUIT", quit: true},
		{line: ".help", wantOut: ".run"},
		{line: ".bogus", wantErr: "Unknown command: .bogus"},
		{line: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			srv := apitest.NewServer(t)
			repl, tr := newTestREPL(t, srv)

			assert.Equal(t, tt.quit, repl.handleLine(context.Background(), tt.line))
			if tt.wantOut != "" {
				assert.Contains(t, tr.Output(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, tr.ErrorOutput(), tt.wantErr)
			}
			assert.Empty(t, srv.Questions())
		})
	}
}

func TestREPL_Welcome(t *testing.T) {
	srv := apitest.NewServer(t)
	repl, tr := newTestREPL(t, srv)

	repl.welcome()
	assert.Contains(t, tr.Output(), "backend: "+srv.URL)
}
