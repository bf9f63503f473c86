// Package xrandr talks to the X display server through the xrandr command.
package xrandr

import (
	"fmt"
	"strings"

	"github.com/frudas24/dualhead/internal/layout"
)

// BuildQueryArgs returns the args listing outputs and their state.
func BuildQueryArgs() []string {
	return []string{"--query"}
}

// BuildApplyArgs returns the args replacing the layout with plan in one call.
func BuildApplyArgs(plan layout.Plan) ([]string, error) {
	if len(plan.Directives) == 0 {
		return nil, fmt.Errorf("plan %s: no directives", plan.Rule)
	}
	var args []string
	for _, d := range plan.Directives {
		if d.Output == "" {
			return nil, fmt.Errorf("plan %s: directive without output", plan.Rule)
		}
		args = append(args, "--output", d.Output)
		if d.Primary {
			args = append(args, "--primary")
		}
		args = append(args, "--mode", d.Resolution.String())
		pos, err := buildPositionArgs(d.Position)
		if err != nil {
			return nil, fmt.Errorf("plan %s: output %s: %w", plan.Rule, d.Output, err)
		}
		args = append(args, pos...)
		rotation := d.Rotation
		if rotation == "" {
			rotation = layout.RotateNormal
		}
		args = append(args, "--rotate", string(rotation))
	}
	return args, nil
}

// buildPositionArgs maps a position to --pos or a relative placement flag.
func buildPositionArgs(p layout.Position) ([]string, error) {
	if p.Absolute {
		return []string{"--pos", fmt.Sprintf("%dx%d", p.X, p.Y)}, nil
	}
	if p.Of == "" {
		return nil, fmt.Errorf("relative position without reference output")
	}
	if !p.Placement.Valid() {
		return nil, fmt.Errorf("unknown placement %q", p.Placement)
	}
	return []string{"--" + string(p.Placement), p.Of}, nil
}

// CommandLine renders path and args as a shell-like line for logs and dry runs.
func CommandLine(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, path)
	parts = append(parts, args...)
	return strings.Join(parts, " ")
}
