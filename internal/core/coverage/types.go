package coverage

import (
	"fmt"
	"strings"
)

// Point is a planar coordinate. X is longitude and Y is latitude; the
// planner treats both as flat Cartesian axes.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered vertex ring. A nil Polygon means no area was drawn.
type Polygon []Point

// Path is an ordered waypoint sequence. Index order is flight order.
type Path []Point

// BoundingBox is the axis-aligned extent of a polygon.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Width returns the X extent of the box.
func (b BoundingBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the Y extent of the box.
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Pattern selects the sweep algorithm.
type Pattern int

const (
	Grid Pattern = iota + 1
	Crosshatch
	Perimeter
)

var patternNames = map[Pattern]string{
	Grid:       "grid",
	Crosshatch: "crosshatch",
	Perimeter:  "perimeter",
}

// Patterns lists every supported pattern in display order.
func Patterns() []Pattern {
	return []Pattern{Grid, Crosshatch, Perimeter}
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// Valid reports whether p is one of the known patterns.
func (p Pattern) Valid() bool {
	_, ok := patternNames[p]
	return ok
}

// ParsePattern converts a UI tag ("grid", "crosshatch", "perimeter") into a
// Pattern. Matching ignores case and surrounding whitespace.
func ParsePattern(s string) (Pattern, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for p, name := range patternNames {
		if name == tag {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPattern, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// TransitPolicy controls how the crosshatch planner links its horizontal and
// vertical passes.
type TransitPolicy int

const (
	// TransitJump starts the vertical pass at (MinX, MinY) no matter where the
	// horizontal pass ended, leaving a diagonal transit leg between the two.
	TransitJump TransitPolicy = iota
	// TransitNearestCorner mirrors the vertical pass so it begins at the box
	// corner closest to the last horizontal waypoint.
	TransitNearestCorner
)

// ParseTransitPolicy converts a config value ("jump", "nearest_corner").
func ParseTransitPolicy(s string) (TransitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jump":
		return TransitJump, nil
	case "nearest_corner", "nearest-corner":
		return TransitNearestCorner, nil
	default:
		return 0, fmt.Errorf("unknown crosshatch transit policy %q", s)
	}
}

func (t TransitPolicy) String() string {
	switch t {
	case TransitJump:
		return "jump"
	case TransitNearestCorner:
		return "nearest_corner"
	default:
		return fmt.Sprintf("transit(%d)", int(t))
	}
}
