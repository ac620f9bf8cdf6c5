package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/askql/internal/cli/output"
	"github.com/leapstack-labs/askql/internal/session"
)

const helpText = "enter submit • ctrl+r run query • pgup/pgdn scroll • esc quit"

type styles struct {
	title    lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
	label    lipgloss.Style
	sql      lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	banner   lipgloss.Style
	help     lipgloss.Style
	spinner  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		button:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1),
		disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1),
		label:    lipgloss.NewStyle().Bold(true),
		sql:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		banner:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		spinner:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// View renders the UI. Everything shown derives from the machine's view.
func (m Model) View() string {
	v := m.machine.View()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(v),
		m.results.View(),
		m.footer(v),
	)
}

func (m Model) header(v session.View) string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(m.submitButton(v))
	b.WriteString("\n")

	if v.ResultVisible {
		b.WriteString("\n")
		b.WriteString(m.styles.label.Render("Generated SQL"))
		b.WriteString("\n")
		b.WriteString(m.styles.sql.Render(v.SQL))
		b.WriteString("\n")
		b.WriteString(m.verdict(v))
		b.WriteString("\n")
		if v.RunVisible {
			b.WriteString("\n")
			b.WriteString(m.runButton(v))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) submitButton(v session.View) string {
	if !v.SubmitEnabled {
		return m.spinner.View() + " " + m.styles.disabled.Render(v.SubmitLabel)
	}
	return m.styles.button.Render(v.SubmitLabel)
}

func (m Model) runButton(v session.View) string {
	if !v.RunEnabled {
		return m.spinner.View() + " " + m.styles.disabled.Render(v.RunLabel)
	}
	return m.styles.button.Render(v.RunLabel) + " " + m.styles.help.Render("ctrl+r")
}

func (m Model) verdict(v session.View) string {
	switch v.VerdictClass {
	case session.ClassSuccess:
		return m.styles.success.Render(output.SymbolSuccess + " " + v.Verdict)
	case session.ClassError:
		return m.styles.failure.Render(output.SymbolError + " " + v.Verdict)
	default:
		return v.Verdict
	}
}

func (m Model) footer(v session.View) string {
	var b strings.Builder
	if v.ErrorVisible {
		b.WriteString(m.styles.banner.Render("Error: " + v.ErrorMessage))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render(helpText))
	return b.String()
}

// resultsContent renders the result table as plain text for the viewport.
func (m Model) resultsContent(v session.View) string {
	if !v.TableVisible {
		return ""
	}
	var buf strings.Builder
	r := output.NewRendererWithTTY(&buf, &buf, false, output.ModeText)
	if err := r.RenderTable(v.Table); err != nil {
		return err.Error()
	}
	return strings.TrimRight(buf.String(), "\n")
}
