package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/askql/internal/apitest"
	"github.com/leapstack-labs/askql/internal/cli/config"
)

// useBackend points the loaded configuration at srv.
func useBackend(t *testing.T, srv *apitest.Server, outputMode string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("ASKQL_API_URL", srv.URL)
	t.Setenv("ASKQL_OUTPUT", outputMode)
	t.Setenv("NO_COLOR", "1")

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

func execute(cmd *cobra.Command, stdin string, args ...string) cmdResult {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return cmdResult{stdout: out.String(), stderr: errOut.String(), err: err}
}
