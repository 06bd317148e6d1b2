package coverage

import (
	"fmt"
	"math"
)

const (
	// DefaultSubdivisions is the sweep density the dashboard has always used.
	DefaultSubdivisions = 10
	// DefaultMaxWaypoints bounds the output size of a single call.
	DefaultMaxWaypoints = 100_000
)

// Planner turns a survey polygon into a waypoint path. The zero value is not
// usable; construct one with New. A Planner holds only immutable options and
// is safe for concurrent use.
type Planner struct {
	maxWaypoints int
	transit      TransitPolicy
}

// Option configures a Planner.
type Option func(*Planner)

// WithMaxWaypoints sets the output ceiling. Values below 1 keep the default.
func WithMaxWaypoints(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxWaypoints = n
		}
	}
}

// WithTransit sets the crosshatch transit policy.
func WithTransit(t TransitPolicy) Option {
	return func(p *Planner) { p.transit = t }
}

// New returns a Planner with the given options applied over the defaults.
func New(opts ...Option) *Planner {
	p := &Planner{
		maxWaypoints: DefaultMaxWaypoints,
		transit:      TransitJump,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultPlanner = New()

// GeneratePath plans a path with the default options.
func GeneratePath(polygon Polygon, pattern Pattern, subdivisions int) (Path, error) {
	return defaultPlanner.GeneratePath(polygon, pattern, subdivisions)
}

// MaxWaypoints returns the configured output ceiling.
func (p *Planner) MaxWaypoints() int { return p.maxWaypoints }

// Transit returns the configured crosshatch transit policy.
func (p *Planner) Transit() TransitPolicy { return p.transit }

// GeneratePath validates the input and synthesizes the waypoint sequence for
// the requested pattern. The result never shares memory with polygon. On
// error the returned path is nil.
func (p *Planner) GeneratePath(polygon Polygon, pattern Pattern, subdivisions int) (Path, error) {
	ring, err := normalize(polygon)
	if err != nil {
		return nil, err
	}
	if !pattern.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPattern, int(pattern))
	}
	if subdivisions < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSubdivisions, subdivisions)
	}
	if err := p.checkDensity(pattern, subdivisions); err != nil {
		return nil, err
	}

	switch pattern {
	case Grid:
		return horizontalSweep(Bounds(ring), subdivisions), nil
	case Crosshatch:
		return p.crosshatch(Bounds(ring), subdivisions), nil
	case Perimeter:
		path := make(Path, len(ring))
		copy(path, ring)
		return path, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPattern, int(pattern))
}

// ExpectedWaypoints returns the upper bound on the number of waypoints a
// sweep pattern produces for the given density. Perimeter returns 0 because
// its length depends only on the polygon.
func ExpectedWaypoints(pattern Pattern, subdivisions int) int64 {
	lines := int64(subdivisions) + 1
	switch pattern {
	case Grid:
		return 2 * lines
	case Crosshatch:
		return 4 * lines
	default:
		return 0
	}
}

func (p *Planner) checkDensity(pattern Pattern, subdivisions int) error {
	if pattern == Perimeter {
		return nil
	}
	// Any sweep emits more than subdivisions waypoints, so this also keeps
	// ExpectedWaypoints from overflowing.
	if subdivisions >= p.maxWaypoints {
		return fmt.Errorf("%w: %d subdivisions, limit %d waypoints", ErrExcessiveDensity, subdivisions, p.maxWaypoints)
	}
	if n := ExpectedWaypoints(pattern, subdivisions); n > int64(p.maxWaypoints) {
		return fmt.Errorf("%w: %d waypoints, limit %d", ErrExcessiveDensity, n, p.maxWaypoints)
	}
	return nil
}

// normalize validates coordinates and strips a closing vertex that repeats
// the first one. The box extent must also be finite. The returned ring is a
// copy.
func normalize(polygon Polygon) (Polygon, error) {
	if polygon == nil {
		return nil, ErrNoAreaDefined
	}
	for i, pt := range polygon {
		if !finite(pt.X) || !finite(pt.Y) {
			return nil, fmt.Errorf("%w: vertex %d (%v, %v)", ErrInvalidCoordinate, i, pt.X, pt.Y)
		}
	}

	n := len(polygon)
	if n >= 2 && polygon[0] == polygon[n-1] {
		n--
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDegeneratePolygon, n)
	}

	ring := make(Polygon, n)
	copy(ring, polygon[:n])
	if b := Bounds(ring); !finite(b.Width()) || !finite(b.Height()) {
		return nil, fmt.Errorf("%w: extent overflows (%v x %v)", ErrInvalidCoordinate, b.Width(), b.Height())
	}
	return ring, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
