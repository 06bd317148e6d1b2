package http

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/geojson"
)

const geoJSONContentType = "application/geo+json"

// pathRequest is the body of POST /v1/paths.
type pathRequest struct {
	Polygon      coverage.Polygon `json:"polygon"`
	Pattern      string           `json:"pattern"`
	Subdivisions *int             `json:"subdivisions"`
	Speed        float64          `json:"speed"`
}

// pathResponse adds the speed-dependent estimate to a flight path.
type pathResponse struct {
	*domain.FlightPath
	EstimatedSeconds float64 `json:"estimated_seconds,omitempty"`
}

func newPathResponse(fp *domain.FlightPath) pathResponse {
	return pathResponse{FlightPath: fp, EstimatedSeconds: fp.EstimatedDuration.Seconds()}
}

// subdivisionsArg resolves an optional subdivisions value. An explicit value
// below one is rejected here because zero means "default" further down.
func subdivisionsArg(v *int) (int, error) {
	if v == nil {
		return 0, nil
	}
	if *v < 1 {
		return 0, coverage.ErrInvalidSubdivisions
	}
	return *v, nil
}

// patternArg parses a pattern tag. An absent tag plans a grid.
func patternArg(raw string) (coverage.Pattern, error) {
	if raw == "" {
		return coverage.Grid, nil
	}
	return coverage.ParsePattern(raw)
}

// GeneratePathHandler plans a flight path over a polygon.
func GeneratePathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pathRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		pattern, err := patternArg(req.Pattern)
		if err != nil {
			return errFromService(c, err)
		}
		subdivisions, err := subdivisionsArg(req.Subdivisions)
		if err != nil {
			return errFromService(c, err)
		}

		fp, err := deps.Paths.Generate(c.UserContext(), usecases.PathRequest{
			Area:         req.Polygon,
			Pattern:      pattern,
			Subdivisions: subdivisions,
			Speed:        req.Speed,
		})
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(newPathResponse(fp))
	}
}

// GeneratePathGeoJSONHandler plans a path over a GeoJSON polygon. Pattern,
// subdivisions and speed come from the query string; the response is a
// FeatureCollection holding the area, the path and its waypoints.
func GeneratePathGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		area, err := geojson.DecodePolygon(c.Body())
		if err != nil {
			if coverage.IsPlanningError(err) || errors.Is(err, geojson.ErrUnsupportedGeometry) {
				return errFromService(c, err)
			}
			return errBadRequest(c, "invalid GeoJSON body")
		}

		pattern, err := patternArg(c.Query("pattern"))
		if err != nil {
			return errFromService(c, err)
		}
		var subdivisions *int
		if raw := c.Query("subdivisions"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return errBadRequest(c, "subdivisions must be an integer")
			}
			subdivisions = &n
		}
		s, err := subdivisionsArg(subdivisions)
		if err != nil {
			return errFromService(c, err)
		}

		fp, err := deps.Paths.Generate(c.UserContext(), usecases.PathRequest{
			Area:         area,
			Pattern:      pattern,
			Subdivisions: s,
			Speed:        c.QueryFloat("speed", 0),
		})
		if err != nil {
			return errFromService(c, err)
		}

		data, err := json.Marshal(geojson.EncodePath(area, fp))
		if err != nil {
			return errInternal(c, "encode geojson")
		}
		c.Set(fiber.HeaderContentType, geoJSONContentType)
		return c.Send(data)
	}
}
