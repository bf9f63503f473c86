package topology

import (
	"fmt"

	"github.com/frudas24/dualhead/internal/layout"
)

// QueryError reports that the display server could not list its outputs.
type QueryError struct {
	Err error
}

// Error implements error.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query outputs: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// ApplyError reports that the display server rejected the layout. Output,
// Mode and Rotation name the directive the failure points at so the rule
// can be adjusted.
type ApplyError struct {
	Output   string
	Mode     layout.Resolution
	Rotation layout.Rotation
	Err      error
}

// Error implements error.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply layout: output %s mode %s rotation %s: %v", e.Output, e.Mode, e.Rotation, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ApplyError) Unwrap() error {
	return e.Err
}
