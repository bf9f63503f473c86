// Package monitor describes display outputs as reported by the display server.
package monitor

import (
	"fmt"
	"strings"
)

// ConnectionState is the connection status of an output.
type ConnectionState string

const (
	// Connected means a display is attached to the output.
	Connected ConnectionState = "connected"
	// Disconnected means nothing is attached.
	Disconnected ConnectionState = "disconnected"
	// Unknown means the server could not tell.
	Unknown ConnectionState = "unknown"
)

// ParseConnectionState maps server text to a state; anything unrecognised is Unknown.
func ParseConnectionState(s string) ConnectionState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "connected":
		return Connected
	case "disconnected":
		return Disconnected
	default:
		return Unknown
	}
}

// Mode is the current geometry of an active output.
type Mode struct {
	Width  int
	Height int
	X      int
	Y      int
}

// String formats the mode the way xrandr prints it (WxH+X+Y).
func (m Mode) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y)
}

// Output describes a display connector and its state.
type Output struct {
	Name    string
	State   ConnectionState
	Mode    *Mode
	Primary bool
}

// String renders the output as a single status line.
func (o Output) String() string {
	parts := []string{o.Name, string(o.State)}
	if o.Mode != nil {
		parts = append(parts, o.Mode.String())
	}
	if o.Primary {
		parts = append(parts, "primary")
	}
	return strings.Join(parts, " ")
}

// FindOutput returns the first output whose name matches exactly.
func FindOutput(list []Output, name string) (Output, bool) {
	for _, o := range list {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// Available reports whether the named output is present and connected.
// Missing, disconnected and unknown outputs are all treated as unavailable.
func Available(list []Output, name string) bool {
	o, ok := FindOutput(list, name)
	return ok && o.State == Connected
}
