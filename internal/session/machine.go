package session

// Ticket identifies one network request issued by a Machine. Tickets increase
// monotonically; only the latest one may change state.
type Ticket uint64

// Machine is the UI state machine. It is not safe for concurrent use: the
// interactive front end confines it to its event loop, and Controller guards
// it with a mutex.
type Machine struct {
	state  UIState
	ticket Ticket

	question string
	sql      string
	verdict  string
	class    VerdictClass
	runSQL   string
	hasRun   bool
	table    Table
	errMsg   string
}

// NewMachine returns a Machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: Idle}
}

// State returns the active state.
func (m *Machine) State() UIState {
	return m.state
}

// Current returns the latest ticket issued.
func (m *Machine) Current() Ticket {
	return m.ticket
}

func (m *Machine) next() Ticket {
	m.ticket++
	return m.ticket
}

func (m *Machine) accepts(t Ticket) bool {
	return t != 0 && t == m.ticket
}

// View snapshots the machine for drawing.
func (m *Machine) View() View {
	v := View{
		State:        m.state,
		Surfaces:     Render(m.state, m.hasRun),
		Question:     m.question,
		SQL:          m.sql,
		Verdict:      m.verdict,
		VerdictClass: m.class,
		ErrorMessage: m.errMsg,
	}
	if m.hasRun {
		v.RunSQL = m.runSQL
	}
	if v.TableVisible {
		v.Table = m.table
	}
	return v
}
