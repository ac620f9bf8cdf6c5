package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/askql/internal/session"
)

// ViewOutput is the structured form of a session view.
type ViewOutput struct {
	State      string       `json:"state" yaml:"state"`
	Question   string       `json:"question,omitempty" yaml:"question,omitempty"`
	SQL        string       `json:"sql,omitempty" yaml:"sql,omitempty"`
	Validation string       `json:"validation,omitempty" yaml:"validation,omitempty"`
	Valid      bool         `json:"valid" yaml:"valid"`
	Runnable   bool         `json:"runnable" yaml:"runnable"`
	Result     *TableOutput `json:"result,omitempty" yaml:"result,omitempty"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// TableOutput is the structured form of an execution result.
type TableOutput struct {
	Columns  []string   `json:"columns" yaml:"columns"`
	Rows     [][]string `json:"rows" yaml:"rows"`
	RowCount int        `json:"row_count" yaml:"row_count"`
	Message  string     `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewViewOutput converts a view into its structured form.
func NewViewOutput(v session.View) ViewOutput {
	out := ViewOutput{
		State:      v.State.String(),
		Question:   v.Question,
		SQL:        v.SQL,
		Validation: v.Verdict,
		Valid:      v.VerdictClass == session.ClassSuccess,
		Runnable:   v.RunSQL != "",
	}
	if v.TableVisible {
		t := &TableOutput{
			Columns:  v.Table.Columns,
			Rows:     v.Table.Rows,
			RowCount: len(v.Table.Rows),
		}
		if t.Columns == nil {
			t.Columns = []string{}
		}
		if t.Rows == nil {
			t.Rows = [][]string{}
		}
		if v.Table.Empty {
			t.Message = session.NoResults
		}
		out.Result = t
	}
	if v.ErrorVisible {
		out.Error = v.ErrorMessage
	}
	return out
}

// RenderView writes a session view in the effective output mode.
func (r *Renderer) RenderView(v session.View) error {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		return r.renderStructured(NewViewOutput(v))
	case ModeCSV:
		return r.renderViewCSV(v)
	case ModeMarkdown:
		return r.renderViewMarkdown(v)
	default:
		return r.renderViewText(v)
	}
}

func (r *Renderer) renderViewText(v session.View) error {
	if !v.ResultsVisible {
		return nil
	}
	switch v.State {
	case session.Generating:
		r.Muted(session.SubmittingLabel)
	case session.Executing:
		r.Muted(session.RunningLabel)
	}

	if v.ResultVisible {
		r.Header(2, "Generated SQL")
		r.Println(r.styles.SQL.Render(v.SQL))
		r.Println("")
		r.verdictLine(v)
	}

	if v.TableVisible {
		r.Println("")
		if err := r.RenderTable(v.Table); err != nil {
			return err
		}
	}

	if v.ErrorVisible {
		r.Error(v.ErrorMessage)
	}
	return nil
}

func (r *Renderer) verdictLine(v session.View) {
	switch v.VerdictClass {
	case session.ClassSuccess:
		r.StatusLine(v.Verdict, "success", "")
	case session.ClassError:
		r.StatusLine(v.Verdict, "error", "")
	default:
		r.StatusLine(v.Verdict, "pending", "")
	}
}

func (r *Renderer) renderViewMarkdown(v session.View) error {
	if !v.ResultsVisible {
		return nil
	}
	if v.ResultVisible {
		if v.Question != "" {
			r.Println(FormatHeader(2, "Question"))
			r.Println(v.Question)
			r.Println("")
		}
		r.Println(FormatHeader(2, "Generated SQL"))
		r.Println(FormatCodeBlock("sql", v.SQL))
		r.Println(FormatKeyValue("Validation", v.Verdict))
		r.Println("")
	}
	if v.TableVisible {
		r.Println(FormatHeader(2, "Results"))
		if err := r.RenderTable(v.Table); err != nil {
			return err
		}
	}
	if v.ErrorVisible {
		r.Error(v.ErrorMessage)
	}
	return nil
}

// renderViewCSV writes only the data: the table once a query has run, the
// bare SQL before that.
func (r *Renderer) renderViewCSV(v session.View) error {
	switch {
	case v.TableVisible:
		if err := r.RenderTable(v.Table); err != nil {
			return err
		}
	case v.ResultVisible:
		r.Println(v.SQL)
		if v.VerdictClass == session.ClassError {
			r.Warning(v.Verdict)
		}
	}
	if v.ErrorVisible {
		r.Error(v.ErrorMessage)
	}
	return nil
}

// RenderTable writes an execution result. Only an empty result prints the
// no-results placeholder in place of a table.
func (r *Renderer) RenderTable(tbl session.Table) error {
	mode := r.EffectiveMode()
	if mode.Structured() {
		return r.renderStructured(NewViewOutput(session.View{
			Surfaces: session.Surfaces{TableVisible: true},
			Table:    tbl,
		}).Result)
	}

	if tbl.Empty {
		if mode != ModeCSV {
			r.Muted(session.NoResults)
		}
		return nil
	}
	if len(tbl.Columns) == 0 {
		// Rows without columns have no cells to draw, only a count.
		if mode != ModeCSV {
			r.Muted(rowCount(len(tbl.Rows)))
		}
		return nil
	}

	switch mode {
	case ModeCSV:
		newTableWriter(r.out, tbl).RenderCSV()
	case ModeMarkdown:
		newTableWriter(r.out, tbl).RenderMarkdown()
		r.Println("")
		r.Println(rowCount(len(tbl.Rows)))
	default:
		newTableWriter(r.out, tbl).Render()
		r.Println(r.styles.Muted.Render(rowCount(len(tbl.Rows))))
	}
	return nil
}

func (r *Renderer) renderStructured(v any) error {
	if r.EffectiveMode() == ModeYAML {
		return r.YAML(v)
	}
	return r.JSON(v)
}

func newTableWriter(w io.Writer, tbl session.Table) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Column names are shown exactly as the backend returned them.
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(tbl.Columns))
	for i, col := range tbl.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, cells := range tbl.Rows {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	return t
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
