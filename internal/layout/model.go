// Package layout holds the compiled-in two-output layout rules and the plans derived from them.
package layout

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rotation is an xrandr output rotation.
type Rotation string

const (
	// RotateNormal keeps the output upright.
	RotateNormal Rotation = "normal"
	// RotateLeft turns the output 90 degrees counter-clockwise.
	RotateLeft Rotation = "left"
	// RotateRight turns the output 90 degrees clockwise.
	RotateRight Rotation = "right"
	// RotateInverted turns the output upside down.
	RotateInverted Rotation = "inverted"
)

// Valid reports whether r is a rotation the display server understands.
func (r Rotation) Valid() bool {
	switch r {
	case RotateNormal, RotateLeft, RotateRight, RotateInverted:
		return true
	default:
		return false
	}
}

// Placement is the position of one output relative to another.
type Placement string

const (
	// RightOf places the output directly right of the reference.
	RightOf Placement = "right-of"
	// LeftOf places the output directly left of the reference.
	LeftOf Placement = "left-of"
	// Above places the output directly above the reference.
	Above Placement = "above"
	// Below places the output directly below the reference.
	Below Placement = "below"
)

// Valid reports whether p is a known relative placement.
func (p Placement) Valid() bool {
	switch p {
	case RightOf, LeftOf, Above, Below:
		return true
	default:
		return false
	}
}

// Resolution is a mode size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// ParseResolution parses a WxH string such as "2560x1440".
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("resolution %q: want WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolution %q: width: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolution %q: height: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return Resolution{}, fmt.Errorf("resolution %q: must be positive", s)
	}
	return Resolution{Width: width, Height: height}, nil
}

// String formats the resolution as WxH.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

// UnmarshalYAML decodes a WxH scalar.
func (r *Resolution) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseResolution(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes the resolution as a WxH scalar.
func (r Resolution) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// LayoutRule maps a trigger output to a fixed two-output arrangement.
type LayoutRule struct {
	Name       string     `yaml:"name"`
	Primary    string     `yaml:"primary"`
	Secondary  string     `yaml:"secondary"`
	Trigger    string     `yaml:"trigger"`
	Resolution Resolution `yaml:"resolution"`
	Rotation   Rotation   `yaml:"rotation"`
	Placement  Placement  `yaml:"placement"`
}

// Validate checks that the rule describes a usable two-output layout.
func (r LayoutRule) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("rule: name is required")
	case r.Primary == "" || r.Secondary == "":
		return fmt.Errorf("rule %s: primary and secondary outputs are required", r.Name)
	case r.Primary == r.Secondary:
		return fmt.Errorf("rule %s: primary and secondary must differ", r.Name)
	case r.Trigger != r.Secondary:
		return fmt.Errorf("rule %s: trigger %q must be the secondary output %q", r.Name, r.Trigger, r.Secondary)
	case r.Resolution.Width <= 0 || r.Resolution.Height <= 0:
		return fmt.Errorf("rule %s: resolution is required", r.Name)
	case !r.Rotation.Valid():
		return fmt.Errorf("rule %s: unknown rotation %q", r.Name, r.Rotation)
	case !r.Placement.Valid():
		return fmt.Errorf("rule %s: unknown placement %q", r.Name, r.Placement)
	}
	return nil
}

// Names returns the output identifiers the rule refers to.
func (r LayoutRule) Names() []string {
	return []string{r.Primary, r.Secondary}
}
