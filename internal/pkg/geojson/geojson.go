// Package geojson converts between drawn GeoJSON areas and planner types.
// Coordinates are [lon, lat] and map to coverage.Point{X: lon, Y: lat}.
package geojson

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
)

// ErrUnsupportedGeometry is returned for geometries other than (Multi)Polygon.
var ErrUnsupportedGeometry = errors.New("unsupported geometry")

// DecodePolygon reads the outer ring of the first polygon in a GeoJSON
// Feature, FeatureCollection or bare geometry. Holes are ignored. A document
// without any polygon yields coverage.ErrNoAreaDefined.
func DecodePolygon(data []byte) (coverage.Polygon, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			switch f.Geometry.(type) {
			case orb.Polygon, orb.MultiPolygon:
				return fromGeometry(f.Geometry)
			}
		}
		return nil, fmt.Errorf("feature collection has no polygon: %w", coverage.ErrNoAreaDefined)
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		return fromGeometry(f.Geometry)
	case "":
		return nil, fmt.Errorf("decode geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		return fromGeometry(g.Geometry())
	}
}

func fromGeometry(g orb.Geometry) (coverage.Polygon, error) {
	var ring orb.Ring
	switch v := g.(type) {
	case nil:
		return nil, fmt.Errorf("feature has no geometry: %w", coverage.ErrNoAreaDefined)
	case orb.Polygon:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty polygon: %w", coverage.ErrNoAreaDefined)
		}
		ring = v[0]
	case orb.MultiPolygon:
		if len(v) == 0 || len(v[0]) == 0 {
			return nil, fmt.Errorf("empty multipolygon: %w", coverage.ErrNoAreaDefined)
		}
		ring = v[0][0]
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}

	poly := make(coverage.Polygon, len(ring))
	for i, p := range ring {
		poly[i] = coverage.Point{X: p.Lon(), Y: p.Lat()}
	}
	return poly, nil
}

// AreaFeature returns the survey area as a closed Polygon feature.
func AreaFeature(area coverage.Polygon) *geojson.Feature {
	ring := make(orb.Ring, 0, len(area)+1)
	for _, p := range area {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties["role"] = "area"
	return f
}

// PathFeature returns the flight path as a LineString feature carrying the
// path statistics as properties.
func PathFeature(fp *domain.FlightPath) *geojson.Feature {
	line := make(orb.LineString, len(fp.Waypoints))
	for i, p := range fp.Waypoints {
		line[i] = orb.Point{p.X, p.Y}
	}
	f := geojson.NewFeature(line)
	f.Properties["role"] = "path"
	f.Properties["pattern"] = fp.Pattern.String()
	f.Properties["subdivisions"] = fp.Subdivisions
	f.Properties["waypoint_count"] = fp.WaypointCount
	f.Properties["distance_meters"] = fp.DistanceMeters
	if fp.EstimatedDuration > 0 {
		f.Properties["estimated_seconds"] = fp.EstimatedDuration.Seconds()
	}
	return f
}

// WaypointsFeature returns the waypoints as a MultiPoint feature, in flight
// order, for marker layers.
func WaypointsFeature(fp *domain.FlightPath) *geojson.Feature {
	points := make(orb.MultiPoint, len(fp.Waypoints))
	for i, p := range fp.Waypoints {
		points[i] = orb.Point{p.X, p.Y}
	}
	f := geojson.NewFeature(points)
	f.Properties["role"] = "waypoints"
	f.Properties["pattern"] = fp.Pattern.String()
	return f
}

// EncodePath builds a FeatureCollection with the area (when given), the
// path line and the waypoint markers, ready for a map layer.
func EncodePath(area coverage.Polygon, fp *domain.FlightPath) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(area) > 0 {
		fc.Append(AreaFeature(area))
	}
	fc.Append(PathFeature(fp))
	fc.Append(WaypointsFeature(fp))
	return fc
}
