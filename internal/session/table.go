package session

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/askql/internal/api"
)

// NoResults is the placeholder shown for an empty execution result.
const NoResults = "No results found."

// Table is a rendered execution result.
type Table struct {
	Columns []string
	Rows    [][]string
	// Empty marks the no-results placeholder.
	Empty bool
}

// BuildTable renders rows into a table. The first row's keys, in order, are
// the columns for every row; later rows are not checked against them. A key
// missing from a row becomes an empty cell. A first row with no keys yields a
// table with no columns that still counts every row.
func BuildTable(rows []api.Row) Table {
	if len(rows) == 0 {
		return Table{Empty: true}
	}

	columns := rows[0].Keys()
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			v, ok := row.Get(col)
			cells[i] = FormatCell(v, ok)
		}
		body = append(body, cells)
	}
	return Table{Columns: columns, Rows: body}
}

// FormatCell renders a single value. present is false for a key the row does
// not carry.
func FormatCell(v any, present bool) string {
	if !present {
		return ""
	}
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case json.Number:
		return val.String()
	case json.RawMessage:
		return string(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}
