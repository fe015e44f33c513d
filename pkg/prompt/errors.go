package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoTemplates is returned when the picked directory holds no templates.
	ErrNoTemplates = errors.New("prompt: no templates found")
	// ErrNothingSelected is returned when the user confirms an empty selection.
	ErrNothingSelected = errors.New("prompt: no templates selected")
)
