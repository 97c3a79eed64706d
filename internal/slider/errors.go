package slider

import "errors"

// Errors returned by Bar operations.
var (
	// ErrEmptyDomain indicates a configuration whose Min is not below Max.
	ErrEmptyDomain = errors.New("bar min must be less than max")

	// ErrUnknownHandle indicates a HandleID that does not name a handle.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrUnknownRange indicates a RangeID that does not name a range.
	ErrUnknownRange = errors.New("unknown range")

	// ErrNoSurface indicates a gesture was delivered to a bar without a surface.
	ErrNoSurface = errors.New("bar has no surface")
)
