package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	SQL     lipgloss.Style
}

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolPending = "…"
)

func newStyles(lg *lipgloss.Renderer) Styles {
	return Styles{
		Header1: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lg.NewStyle().Bold(true),
		Bold:    lg.NewStyle().Bold(true),
		Success: lg.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lg.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lg.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   lg.NewStyle().Foreground(lipgloss.Color("8")),
		SQL:     lg.NewStyle().Foreground(lipgloss.Color("14")),
	}
}
