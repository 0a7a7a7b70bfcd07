package resume

import "fmt"

// UnsupportedFormatError rejects a file whose extension is not accepted.
type UnsupportedFormatError struct {
	Name      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file %q: no extension (allowed: %s)", e.Name, allowedList())
	}
	return fmt.Sprintf("unsupported file %q: %s is not one of %s", e.Name, e.Extension, allowedList())
}

// ExtractionError wraps a failure to read text out of an accepted file.
type ExtractionError struct {
	Name   string
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s file %q: %v", e.Format, e.Name, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
