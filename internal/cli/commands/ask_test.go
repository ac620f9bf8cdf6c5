package commands

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/askql/internal/apitest"
	"github.com/leapstack-labs/askql/internal/cli/output"
)

const customersRows = `{"data":[{"name":"A","revenue":100},{"name":"B","revenue":90}]}`

func customersServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.OnGenerate(func(string) apitest.Response {
		return apitest.Generated("SELECT name, revenue FROM customers LIMIT 5", apitest.SuccessVerdict)
	})
	srv.OnExecute(func(string) apitest.Response {
		return apitest.Raw(http.StatusOK, customersRows)
	})
	return srv
}

func TestAsk_GenerateOnly(t *testing.T) {
	srv := customersServer(t)
	useBackend(t, srv, "markdown")

	res := execute(NewAskCommand(), "", "top", "5", "customers")

	require.NoError(t, res.err)
	assert.Equal(t, []string{"top 5 customers"}, srv.Questions())
	assert.Empty(t, srv.Queries())
	assert.Contains(t, res.stdout, "```sql\nSELECT name, revenue FROM customers LIMIT 5\n```")
	assert.Contains(t, res.stdout, apitest.SuccessVerdict)
	assert.NotContains(t, res.stdout, "## Results")
}

func TestAsk_ExecuteCSV(t *testing.T) {
	srv := customersServer(t)
	useBackend(t, srv, "csv")

	res := execute(NewAskCommand(), "", "-x", "top 5 customers by revenue")

	require.NoError(t, res.err)
	assert.Equal(t, "name,revenue\nA,100\nB,90\n", res.stdout)
	assert.Equal(t, []string{"SELECT name, revenue FROM customers LIMIT 5"}, srv.Queries())
}

func TestAsk_ExecuteJSON(t *testing.T) {
	srv := customersServer(t)
	useBackend(t, srv, "json")

	res := execute(NewAskCommand(), "", "--execute", "top 5 customers by revenue")
	require.NoError(t, res.err)

	var got output.ViewOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "executed", got.State)
	assert.True(t, got.Valid)
	require.NotNil(t, got.Result)
	assert.Equal(t, []string{"name", "revenue"}, got.Result.Columns)
	assert.Equal(t, 2, got.Result.RowCount)
}

func TestAsk_ExecuteEmptyResult(t *testing.T) {
	srv := customersServer(t)
	srv.OnExecute(func(string) apitest.Response { return apitest.Raw(http.StatusOK, `{"data":[]}`) })
	useBackend(t, srv, "text")

	res := execute(NewAskCommand(), "", "-x", "customers with no orders")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No results found.")
}

func TestAsk_ExecuteNotRunnable(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		verdict string
		reason  string
	}{
		{"invalid verdict", "SELECT foo FROM bar", "Validation failed: no such column: foo", "validation failed"},
		{"not a select", "DELETE FROM salaries", apitest.SuccessVerdict, "only SELECT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			srv.OnGenerate(func(string) apitest.Response { return apitest.Generated(tt.sql, tt.verdict) })
			useBackend(t, srv, "text")

			res := execute(NewAskCommand(), "", "-x", "q")

			require.ErrorIs(t, res.err, ErrNotRunnable)
			assert.Contains(t, res.err.Error(), tt.reason)
			assert.Contains(t, res.stdout, tt.sql)
			assert.Empty(t, srv.Queries())
		})
	}
}

func TestAsk_InvalidVerdictWithoutExecute(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.OnGenerate(func(string) apitest.Response {
		return apitest.Generated("SELECT foo FROM bar", "Validation failed: no such column: foo")
	})
	useBackend(t, srv, "text")

	res := execute(NewAskCommand(), "", "q")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, output.SymbolError+" Validation failed: no such column: foo")
}

func TestAsk_TransportError(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.OnGenerate(func(string) apitest.Response {
		return apitest.Fail(http.StatusServiceUnavailable, "Could not connect to Google Gemini API")
	})
	useBackend(t, srv, "text")

	for _, args := range [][]string{{"q"}, {"-x", "q"}} {
		res := execute(NewAskCommand(), "", args...)

		require.ErrorIs(t, res.err, ErrReported)
		assert.Contains(t, res.stderr, "Could not connect to Google Gemini API")
	}
}

func TestAsk_ExecutionError(t *testing.T) {
	srv := customersServer(t)
	srv.OnExecute(func(string) apitest.Response {
		return apitest.Response{Status: http.StatusInternalServerError, Body: map[string]any{}}
	})
	useBackend(t, srv, "text")

	res := execute(NewAskCommand(), "", "-x", "q")

	require.ErrorIs(t, res.err, ErrReported)
	assert.Contains(t, res.stderr, "HTTP error! status: 500")
	assert.Contains(t, res.stdout, "SELECT name, revenue FROM customers LIMIT 5")
}

func TestAsk_QuestionSources(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		srv := customersServer(t)
		useBackend(t, srv, "text")

		res := execute(NewAskCommand(), "list all departments\n")
		require.NoError(t, res.err)
		assert.Equal(t, []string{"list all departments"}, srv.Questions())
	})

	t.Run("input file", func(t *testing.T) {
		srv := customersServer(t)
		useBackend(t, srv, "text")

		path := filepath.Join(t.TempDir(), "question.txt")
		require.NoError(t, os.WriteFile(path, []byte("  average salary\n"), 0o600))

		res := execute(NewAskCommand(), "", "--input", path)
		require.NoError(t, res.err)
		assert.Equal(t, []string{"average salary"}, srv.Questions())
	})

	t.Run("missing input file", func(t *testing.T) {
		srv := customersServer(t)
		useBackend(t, srv, "text")

		res := execute(NewAskCommand(), "", "--input", "nope.txt")
		require.Error(t, res.err)
		assert.Empty(t, srv.Questions())
	})

	t.Run("blank", func(t *testing.T) {
		srv := customersServer(t)
		useBackend(t, srv, "text")

		for _, stdin := range []string{"", "  \n\t"} {
			res := execute(NewAskCommand(), stdin, "   ")
			require.NoError(t, res.err)
			assert.Empty(t, res.stdout)
			assert.Empty(t, res.stderr)
		}

		res := execute(NewAskCommand(), "   \n")
		require.NoError(t, res.err)
		assert.Empty(t, res.stdout)
		assert.Empty(t, srv.Questions())
	})
}
