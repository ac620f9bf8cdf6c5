// Package session holds the client's UI state machine.
//
// A Machine owns the single set of shared affordances (loading indicator,
// submit control, run action, results table, error banner) that both the
// question-submission flow and the query-execution flow drive. Front ends
// never toggle those affordances directly: they feed events into the
// Machine and draw whatever View it reports. Render derives every surface
// from the current state, so there is no reset step that can be forgotten.
package session

// UIState is the single active state of the interface.
type UIState int

const (
	Idle UIState = iota
	Generating
	GeneratedOk
	GeneratedFail
	Executing
	ExecutedOk
	ExecutedFail
	// TransportError means the generation request itself failed.
	TransportError
)

func (s UIState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case GeneratedOk:
		return "generated"
	case GeneratedFail:
		return "generated_invalid"
	case Executing:
		return "executing"
	case ExecutedOk:
		return "executed"
	case ExecutedFail:
		return "execution_failed"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// InFlight reports whether a network call is outstanding in this state.
func (s UIState) InFlight() bool {
	return s == Generating || s == Executing
}

// Control labels.
const (
	SubmitLabel     = "Generate SQL"
	SubmittingLabel = "Generating..."
	RunLabel        = "Run Query"
	RunningLabel    = "Running..."
)

// Surfaces says which affordances are visible or enabled.
type Surfaces struct {
	Loading bool

	SubmitEnabled bool
	SubmitLabel   string

	// ResultsVisible is the whole results region; ResultVisible is the
	// SQL and verdict panel inside it.
	ResultsVisible bool
	ResultVisible  bool

	RunVisible bool
	RunEnabled bool
	RunLabel   string

	TableVisible bool
	ErrorVisible bool
}

// Render maps a state to its surfaces. hasRun says whether the current cycle
// produced a run action.
func Render(state UIState, hasRun bool) Surfaces {
	s := Surfaces{
		Loading:        state.InFlight(),
		SubmitEnabled:  state != Generating,
		SubmitLabel:    SubmitLabel,
		ResultsVisible: state != Idle,
		RunLabel:       RunLabel,
	}
	if state == Generating {
		s.SubmitLabel = SubmittingLabel
	}

	switch state {
	case GeneratedOk, GeneratedFail, Executing, ExecutedOk, ExecutedFail:
		s.ResultVisible = true
	}

	if hasRun {
		switch state {
		case GeneratedOk, ExecutedOk, ExecutedFail:
			s.RunVisible = true
			s.RunEnabled = true
		case Executing:
			s.RunVisible = true
			s.RunLabel = RunningLabel
		}
	}

	s.TableVisible = state == ExecutedOk
	s.ErrorVisible = state == TransportError || state == ExecutedFail
	return s
}

// VerdictClass is the visual class applied to the verdict text.
type VerdictClass string

const (
	ClassNone    VerdictClass = ""
	ClassSuccess VerdictClass = "success"
	ClassError   VerdictClass = "error"
)

// View is everything a front end needs to draw the interface.
type View struct {
	State UIState
	Surfaces

	Question     string
	SQL          string
	Verdict      string
	VerdictClass VerdictClass
	// RunSQL is the query bound to the run action, empty when there is none.
	RunSQL       string
	Table        Table
	ErrorMessage string
}
