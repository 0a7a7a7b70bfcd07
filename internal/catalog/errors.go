package catalog

import "fmt"

// DatasetError reports a catalog that cannot be served: missing required
// columns, invalid rows, or an unreadable source. It is fatal at startup.
type DatasetError struct {
	Source  string
	Message string
	Column  string
	Row     int
	Cause   error
}

func (e *DatasetError) Error() string {
	msg := "dataset error"
	if e.Source != "" {
		msg += fmt.Sprintf(" in %s", e.Source)
	}
	msg += ": " + e.Message
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" at row %d", e.Row)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *DatasetError) Unwrap() error {
	return e.Cause
}
