package wavefront

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	ErrMissingFile     = errors.New("missing file")
	ErrMalformedRecord = errors.New("malformed record")
)

// RecordError reports a record that could not be parsed. It matches
// ErrMalformedRecord with errors.Is.
type RecordError struct {
	Source    string
	Line      int
	Directive string
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("[%s: %d] %s %q: %v", e.Source, e.Line, ErrMalformedRecord, e.Directive, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedRecord.
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func malformed(source string, line int, directive string, format string, args ...any) error {
	return &RecordError{
		Source:    source,
		Line:      line,
		Directive: directive,
		Err:       fmt.Errorf(format, args...),
	}
}
