package reporting

import (
	"errors"
	"fmt"
)

// ResourceLoadError is returned when a packaged resource (template or stylesheet)
// is missing or unreadable
type ResourceLoadError struct {
	Resource string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("failed to load resource %s: %v", e.Resource, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// IsResourceLoadError checks if the error is or wraps a ResourceLoadError
func IsResourceLoadError(err error) bool {
	var loadErr *ResourceLoadError
	return err != nil && errors.As(err, &loadErr)
}

// WriteError is returned when the rendered report cannot be written.
// The report is best-effort: callers log it and carry on.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError checks if the error is or wraps a WriteError
func IsWriteError(err error) bool {
	var writeErr *WriteError
	return err != nil && errors.As(err, &writeErr)
}
