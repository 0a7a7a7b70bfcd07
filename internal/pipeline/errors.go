package pipeline

import "errors"

var (
	// ErrEmptyInput is matched by EmptyInputError.
	ErrEmptyInput = errors.New("no skills resolved from input")
	// ErrInvalidPage reports a page below 1 or a non-positive page size.
	ErrInvalidPage = errors.New("invalid page")
	// ErrInternal hides an unexpected failure from the caller. Details are logged.
	ErrInternal = errors.New("internal error while building recommendations")
)

// EmptyInputError is a user-correctable condition: neither the text nor the
// skill list produced any skill.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	if e.Source == "" {
		return ErrEmptyInput.Error()
	}
	return ErrEmptyInput.Error() + " (" + e.Source + ")"
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}
