package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a config or theme file that does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNotObject marks a document whose top level is not an object.
	ErrNotObject = errors.New("document is not an object")
	// ErrUnknownTheme marks a theme name with no built-in definition.
	ErrUnknownTheme = errors.New("unknown theme")
)

// LoadError records why a configuration tier was skipped.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
