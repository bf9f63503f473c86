package layout

import "fmt"

// Position places an output either absolutely or relative to another output.
type Position struct {
	Absolute  bool
	X         int
	Y         int
	Placement Placement
	Of        string
}

// At returns an absolute position.
func At(x, y int) Position {
	return Position{Absolute: true, X: x, Y: y}
}

// RelativeTo returns a position relative to another output.
func RelativeTo(p Placement, of string) Position {
	return Position{Placement: p, Of: of}
}

// String formats the position for logs.
func (p Position) String() string {
	if p.Absolute {
		return fmt.Sprintf("%dx%d", p.X, p.Y)
	}
	return fmt.Sprintf("%s %s", p.Placement, p.Of)
}

// Directive is the desired state of one output.
type Directive struct {
	Output     string
	Primary    bool
	Resolution Resolution
	Rotation   Rotation
	Position   Position
}

// Plan is a full layout replacement applied in a single call.
type Plan struct {
	Rule       string
	Directives []Directive
}

// Outputs returns the directive output names in order.
func (p Plan) Outputs() []string {
	names := make([]string, 0, len(p.Directives))
	for _, d := range p.Directives {
		names = append(names, d.Output)
	}
	return names
}

// Directive returns the directive for the named output.
func (p Plan) Directive(name string) (Directive, bool) {
	for _, d := range p.Directives {
		if d.Output == name {
			return d, true
		}
	}
	return Directive{}, false
}

// Plan builds the layout for the rule: primary at the origin, secondary
// placed relative to it, both at the rule's resolution and rotation.
func (r LayoutRule) Plan() Plan {
	placement := r.Placement
	if placement == "" {
		placement = RightOf
	}
	return Plan{
		Rule: r.Name,
		Directives: []Directive{
			{
				Output:     r.Primary,
				Primary:    true,
				Resolution: r.Resolution,
				Rotation:   r.Rotation,
				Position:   At(0, 0),
			},
			{
				Output:     r.Secondary,
				Resolution: r.Resolution,
				Rotation:   r.Rotation,
				Position:   RelativeTo(placement, r.Primary),
			},
		},
	}
}
