package session

import "github.com/leapstack-labs/askql/internal/api"

// Run starts executing the query bound to the run action. It returns false
// when there is no run action or an execution is already in flight, since the
// control is not enabled then.
func (m *Machine) Run() (Ticket, string, bool) {
	if !Render(m.state, m.hasRun).RunEnabled {
		return 0, "", false
	}

	m.state = Executing
	m.table = Table{}
	m.errMsg = ""
	return m.next(), m.runSQL, true
}

// Executed applies the outcome of the execution request issued under t. The
// new table replaces any previous one.
func (m *Machine) Executed(t Ticket, exec api.Execution, err error) bool {
	if !m.accepts(t) || m.state != Executing {
		return false
	}

	if err != nil {
		m.state = ExecutedFail
		m.errMsg = api.Message(err)
		return true
	}

	m.state = ExecutedOk
	m.table = BuildTable(exec.Data)
	return true
}
