package transform

import "errors"

var (
	// ErrClosed is returned when evaluating a closed expression.
	ErrClosed = errors.New("transform is closed")

	// ErrNotNumber is returned when an expression yields a non-number.
	ErrNotNumber = errors.New("transform result is not a number")

	// ErrTimeout is returned when an evaluation exceeds its time budget.
	ErrTimeout = errors.New("transform timed out")
)
