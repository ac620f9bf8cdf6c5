package session

import (
	"strings"

	"github.com/leapstack-labs/askql/internal/api"
)

// Submit starts a generation cycle for question. A question that is empty
// after trimming is ignored: Submit returns false and nothing changes.
//
// An accepted submission clears everything left by the previous cycle and
// enters Generating. A submission made while another generation is in flight
// supersedes it.
func (m *Machine) Submit(question string) (Ticket, bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return 0, false
	}

	m.state = Generating
	m.question = question
	m.sql = ""
	m.verdict = ""
	m.class = ClassNone
	m.runSQL = ""
	m.hasRun = false
	m.table = Table{}
	m.errMsg = ""
	return m.next(), true
}

// Generated applies the outcome of the generation request issued under t. It
// returns false, leaving the machine untouched, when t has been superseded.
func (m *Machine) Generated(t Ticket, gen api.Generation, err error) bool {
	if !m.accepts(t) || m.state != Generating {
		return false
	}

	if err != nil {
		m.state = TransportError
		m.errMsg = api.Message(err)
		return true
	}

	verdict := Classify(gen.ValidationResult)
	m.sql = gen.SQLQuery
	m.verdict = gen.ValidationResult
	m.class = verdict.class()

	if verdict == Valid {
		m.state = GeneratedOk
	} else {
		m.state = GeneratedFail
	}
	if verdict == Valid && IsRunnable(gen.SQLQuery) {
		m.runSQL = gen.SQLQuery
		m.hasRun = true
	}
	return true
}
