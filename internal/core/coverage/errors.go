package coverage

import "errors"

// Planning errors. Callers match them with errors.Is; the returned error may
// wrap one of these with extra detail.
var (
	ErrNoAreaDefined       = errors.New("no survey area defined")
	ErrDegeneratePolygon   = errors.New("survey area needs at least 3 vertices")
	ErrExcessiveDensity    = errors.New("sweep density exceeds waypoint limit")
	ErrInvalidSubdivisions = errors.New("subdivisions must be at least 1")
	ErrInvalidCoordinate   = errors.New("coordinate is not a finite number")
	ErrUnknownPattern      = errors.New("unknown flight pattern")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrNoAreaDefined, "no_area_defined"},
	{ErrDegeneratePolygon, "degenerate_polygon"},
	{ErrExcessiveDensity, "excessive_density"},
	{ErrInvalidSubdivisions, "invalid_subdivisions"},
	{ErrInvalidCoordinate, "invalid_coordinate"},
	{ErrUnknownPattern, "unknown_pattern"},
}

// ErrorCode returns a stable snake_case code for a planning error, or "" if
// err is not one.
func ErrorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ""
}

// IsPlanningError reports whether err came from input validation.
func IsPlanningError(err error) bool {
	return ErrorCode(err) != ""
}
