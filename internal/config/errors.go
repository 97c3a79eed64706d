package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration decoding.
var (
	// ErrUnknownKey indicates a key the decoder does not understand.
	ErrUnknownKey = errors.New("unknown key")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// FieldError locates a decoding error inside the configuration tree.
type FieldError struct {
	// Path is the dotted key path, e.g. handles.low.value.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(path string, err error) error {
	return &FieldError{Path: path, Err: err}
}

func typeErr(path, want string, got any) error {
	return fieldErr(path, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, want, got))
}
