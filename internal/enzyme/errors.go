package enzyme

import "fmt"

// InvalidPatternError reports a recognition pattern that is empty or
// holds a character outside the IUPAC nucleotide table.
type InvalidPatternError struct {
	Pattern string
	Pos     int
	Char    byte
}

func (e *InvalidPatternError) Error() string {
	if e.Pattern == "" {
		return "empty recognition pattern"
	}
	return fmt.Sprintf("invalid IUPAC base %q at position %d of pattern %q", e.Char, e.Pos, e.Pattern)
}

// InvalidEnzymeSpecError reports an enzyme definition that cannot be used:
// a malformed enzyme-list line, a bad cut offset or a bad pattern (Err).
type InvalidEnzymeSpecError struct {
	Line   int // 1-based line in the enzyme list; 0 when not read from a list
	Text   string
	Reason string
	Err    error
}

func (e *InvalidEnzymeSpecError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = e.Err.Error()
		if e.Reason != "" {
			msg = e.Reason + ": " + msg
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("enzyme list line %d (%q): %s", e.Line, e.Text, msg)
	}
	return "invalid enzyme: " + msg
}

func (e *InvalidEnzymeSpecError) Unwrap() error { return e.Err }
