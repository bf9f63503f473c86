// Package testutil provides fakes for the display server boundary.
package testutil

import (
	"context"

	"github.com/frudas24/dualhead/internal/layout"
	"github.com/frudas24/dualhead/internal/monitor"
)

// FakeDisplay implements the query and apply boundaries and records calls.
type FakeDisplay struct {
	Reported []monitor.Output
	QueryErr error
	ApplyErr error

	Queries int
	Applied []layout.Plan
}

// NewFakeDisplay returns a fake reporting the given outputs.
func NewFakeDisplay(outputs ...monitor.Output) *FakeDisplay {
	return &FakeDisplay{Reported: outputs}
}

// Outputs records a query and returns the configured outputs or error.
func (f *FakeDisplay) Outputs(ctx context.Context) ([]monitor.Output, error) {
	_ = ctx
	f.Queries++
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	out := make([]monitor.Output, len(f.Reported))
	copy(out, f.Reported)
	return out, nil
}

// Apply records the plan and returns the configured error.
func (f *FakeDisplay) Apply(ctx context.Context, plan layout.Plan) error {
	_ = ctx
	f.Applied = append(f.Applied, plan)
	return f.ApplyErr
}

// Connected is shorthand for a connected output.
func Connected(name string) monitor.Output {
	return monitor.Output{Name: name, State: monitor.Connected}
}

// Disconnected is shorthand for a disconnected output.
func Disconnected(name string) monitor.Output {
	return monitor.Output{Name: name, State: monitor.Disconnected}
}
