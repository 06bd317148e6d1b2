package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/pkg/geospatial"
	"github.com/samirrijal/skysurvey/internal/pkg/metrics"
	"github.com/samirrijal/skysurvey/internal/pkg/telemetry"
)

// PathRequest is a flight path generation request.
type PathRequest struct {
	Area         coverage.Polygon
	Pattern      coverage.Pattern
	Subdivisions int     // 0 uses the configured default
	Speed        float64 // m/s, 0 skips the duration estimate
	MissionID    string  // optional, for event correlation
}

// PathDefaults are the service-level planning defaults.
type PathDefaults struct {
	Subdivisions    int
	CacheTTLSeconds int
}

// PathService generates coverage flight paths.
type PathService struct {
	planner  *coverage.Planner
	cache    ports.CacheService
	events   ports.EventPublisher
	defaults PathDefaults
	now      func() time.Time
}

// NewPathService creates a new PathService. cache and events may be nil.
func NewPathService(planner *coverage.Planner, cache ports.CacheService, events ports.EventPublisher, defaults PathDefaults) *PathService {
	if defaults.Subdivisions <= 0 {
		defaults.Subdivisions = coverage.DefaultSubdivisions
	}
	if defaults.CacheTTLSeconds <= 0 {
		defaults.CacheTTLSeconds = 600
	}
	return &PathService{
		planner:  planner,
		cache:    cache,
		events:   events,
		defaults: defaults,
		now:      time.Now,
	}
}

// DefaultSubdivisions returns the density used when a request leaves it unset.
func (s *PathService) DefaultSubdivisions() int { return s.defaults.Subdivisions }

// Generate plans a flight path. Planning errors are returned wrapped and can
// be matched with errors.Is against the coverage.Err* values.
func (s *PathService) Generate(ctx context.Context, req PathRequest) (*domain.FlightPath, error) {
	subdivisions := req.Subdivisions
	if subdivisions == 0 {
		subdivisions = s.defaults.Subdivisions
	}

	ctx, span := telemetry.Tracer().Start(ctx, "PathService.Generate")
	defer span.End()
	span.SetAttributes(
		telemetry.AttrPattern.String(req.Pattern.String()),
		telemetry.AttrSubdivisions.Int(subdivisions),
	)

	cacheKey := s.cacheKey(req.Area, req.Pattern, subdivisions)
	fp, hit := s.fromCache(ctx, cacheKey)
	span.SetAttributes(telemetry.AttrCacheHit.Bool(hit))

	if !hit {
		path, err := s.planner.GeneratePath(req.Area, req.Pattern, subdivisions)
		if err != nil {
			metrics.PathErrors.WithLabelValues(errorReason(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("generate %s path: %w", req.Pattern, err)
		}

		fp = &domain.FlightPath{
			Pattern:        req.Pattern,
			Subdivisions:   subdivisions,
			Waypoints:      path,
			WaypointCount:  len(path),
			Bounds:         coverage.Bounds(path),
			DistanceMeters: geospatial.PathLength(path),
			GeneratedAt:    s.now().UTC(),
		}
		s.toCache(ctx, cacheKey, fp)
	}

	fp.EstimatedDuration = geospatial.FlightDuration(fp.DistanceMeters, req.Speed)
	span.SetAttributes(telemetry.AttrWaypoints.Int(fp.WaypointCount))

	metrics.PathsGenerated.WithLabelValues(req.Pattern.String()).Inc()
	metrics.PathWaypoints.WithLabelValues(req.Pattern.String()).Observe(float64(fp.WaypointCount))

	slog.InfoContext(ctx, "flight path generated",
		"pattern", req.Pattern.String(),
		"subdivisions", subdivisions,
		"waypoints", fp.WaypointCount,
		"cache_hit", hit,
	)

	if s.events != nil {
		event := &domain.PathGeneratedEvent{
			MissionID:     req.MissionID,
			Pattern:       req.Pattern,
			WaypointCount: fp.WaypointCount,
			Time:          s.now().UTC(),
		}
		if err := s.events.PublishPathGenerated(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish path event failed", "error", err)
		}
	}

	return fp, nil
}

// cacheKey hashes everything the planner output depends on.
func (s *PathService) cacheKey(area coverage.Polygon, pattern coverage.Pattern, subdivisions int) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(struct {
		Area         coverage.Polygon `json:"a"`
		Pattern      int              `json:"p"`
		Subdivisions int              `json:"s"`
		Transit      int              `json:"t"`
		Limit        int              `json:"l"`
	}{area, int(pattern), subdivisions, int(s.planner.Transit()), s.planner.MaxWaypoints()})
	return "paths:" + hex.EncodeToString(h.Sum(nil)[:16])
}

func (s *PathService) fromCache(ctx context.Context, key string) (*domain.FlightPath, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("path").Inc()
		return nil, false
	}
	var fp domain.FlightPath
	if err := json.Unmarshal(data, &fp); err != nil {
		metrics.CacheMisses.WithLabelValues("path").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("path").Inc()
	return &fp, true
}

func (s *PathService) toCache(ctx context.Context, key string, fp *domain.FlightPath) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(fp); err == nil {
		_ = s.cache.Set(ctx, key, data, s.defaults.CacheTTLSeconds)
	}
}

func errorReason(err error) string {
	if code := coverage.ErrorCode(err); code != "" {
		return code
	}
	return "internal"
}
