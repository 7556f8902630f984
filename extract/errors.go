package extract

import (
	"fmt"
	"strings"
)

// MalformedSourceError is raised before any writes when the extract is missing columns or holds
// a value that cannot be parsed.
type MalformedSourceError struct {
	Missing []string // required columns absent from the header
	Line    int      // line of the offending value, if any
	Field   string
	Value   string
	Err     error
}

func (e *MalformedSourceError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("malformed source: missing required columns: %v", strings.Join(e.Missing, ", "))
	}
	if e.Field != "" {
		return fmt.Sprintf("malformed source: line %d: column %q: unable to parse %q: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed source: %v", e.Err)
}

func (e *MalformedSourceError) Unwrap() error {
	return e.Err
}
