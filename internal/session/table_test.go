package session

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/askql/internal/api"
)

func rowsFromJSON(t *testing.T, raw string) []api.Row {
	t.Helper()
	var rows []api.Row
	require.NoError(t, json.Unmarshal([]byte(raw), &rows))
	return rows
}

func TestBuildTable_Example(t *testing.T) {
	rows := rowsFromJSON(t, `[{"name":"A","revenue":100},{"name":"B","revenue":90}]`)

	table := BuildTable(rows)

	assert.False(t, table.Empty)
	assert.Equal(t, []string{"name", "revenue"}, table.Columns)
	assert.Equal(t, [][]string{{"A", "100"}, {"B", "90"}}, table.Rows)
}

func TestBuildTable_Empty(t *testing.T) {
	assert.True(t, BuildTable(nil).Empty)
	assert.True(t, BuildTable([]api.Row{}).Empty)
	assert.Empty(t, BuildTable(nil).Columns)
}

func TestBuildTable_NRowsSharedKeys(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			rows := make([]api.Row, n)
			for i := range rows {
				rows[i].Set("emp_no", i)
				rows[i].Set("first_name", fmt.Sprintf("name-%d", i))
				rows[i].Set("hire_date", "1990-01-01")
			}

			table := BuildTable(rows)
			assert.Len(t, table.Rows, n)
			assert.Equal(t, []string{"emp_no", "first_name", "hire_date"}, table.Columns)
			for _, cells := range table.Rows {
				assert.Len(t, cells, 3)
			}
		})
	}
}

func TestBuildTable_FirstRowFixesColumns(t *testing.T) {
	rows := rowsFromJSON(t, `[{"a":1,"b":2},{"b":3,"c":4},{"a":null}]`)

	table := BuildTable(rows)

	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "2"},
		{"", "3"},
		{"NULL", ""},
	}, table.Rows)
}

func TestBuildTable_NestedValuesKeepWireOrder(t *testing.T) {
	rows := rowsFromJSON(t, `[{"m":{ "z": 1, "a": [ {"y":2,"b":3} ] }}]`)

	table := BuildTable(rows)

	assert.Equal(t, [][]string{{`{"z":1,"a":[{"y":2,"b":3}]}`}}, table.Rows)
}

func TestBuildTable_KeylessFirstRow(t *testing.T) {
	rows := rowsFromJSON(t, `[{},{"a":1}]`)

	table := BuildTable(rows)

	assert.False(t, table.Empty)
	assert.Empty(t, table.Columns)
	assert.Len(t, table.Rows, 2)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		present bool
		want    string
	}{
		{name: "missing", value: nil, present: false, want: ""},
		{name: "null", value: nil, present: true, want: "NULL"},
		{name: "string", value: "Georgi", present: true, want: "Georgi"},
		{name: "number keeps wire text", value: json.Number("60117.00"), present: true, want: "60117.00"},
		{name: "true", value: true, present: true, want: "true"},
		{name: "false", value: false, present: true, want: "false"},
		{name: "object", value: map[string]any{"k": "v"}, present: true, want: `{"k":"v"}`},
		{name: "array", value: []any{json.Number("1"), "x"}, present: true, want: `[1,"x"]`},
		{name: "raw object", value: json.RawMessage(`{"z":1,"a":2}`), present: true, want: `{"z":1,"a":2}`},
		{name: "go int", value: 42, present: true, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.value, tt.present))
		})
	}
}
