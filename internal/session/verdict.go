package session

import "strings"

// Verdict is the classified form of the backend's free-text validation result.
type Verdict int

const (
	Invalid Verdict = iota
	Valid
)

func (v Verdict) String() string {
	if v == Valid {
		return "valid"
	}
	return "invalid"
}

// successMarker is the substring the backend uses for queries that ran
// without errors ("Validation successful: ..."). Its failures read
// "Validation failed: ...".
const successMarker = "successful"

// Classify turns a validation result into a Verdict. Matching is a
// case-insensitive substring test for "successful"; anything else, including
// an empty result, is Invalid.
func Classify(validationResult string) Verdict {
	if strings.Contains(strings.ToLower(validationResult), successMarker) {
		return Valid
	}
	return Invalid
}

// IsRunnable reports whether sql may be offered for execution: after trimming,
// it must start with SELECT in any letter case.
func IsRunnable(sql string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT")
}

func (v Verdict) class() VerdictClass {
	if v == Valid {
		return ClassSuccess
	}
	return ClassError
}
