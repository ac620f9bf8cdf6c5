// Package output renders askql results for terminals, pipes, and machines.
package output

import "strings"

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
	ModeCSV      OutputMode = "csv"
)

// Mode parses an output setting. Unknown or empty values mean ModeAuto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON, ModeYAML, ModeCSV:
		return m
	case "md":
		return ModeMarkdown
	case "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}

// Structured reports whether the mode is meant for machines.
func (m OutputMode) Structured() bool {
	return m == ModeJSON || m == ModeYAML
}
