package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/geojson"
)

// createMissionRequest is the body of POST /v1/missions. Omitted flight
// parameters take the planner defaults; omitted safety flags are on.
type createMissionRequest struct {
	Name              string           `json:"name"`
	Location          string           `json:"location"`
	DroneID           string           `json:"drone_id"`
	Pattern           string           `json:"pattern"`
	Area              coverage.Polygon `json:"area"`
	Subdivisions      *int             `json:"subdivisions"`
	Altitude          float64          `json:"altitude"`
	Overlap           int              `json:"overlap"`
	Speed             float64          `json:"speed"`
	AutoReturn        *bool            `json:"auto_return"`
	ObstacleAvoidance *bool            `json:"obstacle_avoidance"`
	Geofencing        *bool            `json:"geofencing"`
	ScheduledAt       *time.Time       `json:"scheduled_at"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// CreateMissionHandler validates and stores a new mission.
func CreateMissionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createMissionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		pattern, err := coverage.ParsePattern(req.Pattern)
		if err != nil {
			return errFromService(c, err)
		}
		subdivisions, err := subdivisionsArg(req.Subdivisions)
		if err != nil {
			return errFromService(c, err)
		}

		m, err := deps.Missions.Create(c.UserContext(), usecases.MissionDraft{
			Name:         req.Name,
			Location:     req.Location,
			DroneID:      req.DroneID,
			Pattern:      pattern,
			Area:         req.Area,
			Subdivisions: subdivisions,
			Params: domain.FlightParams{
				Altitude:          req.Altitude,
				Overlap:           req.Overlap,
				Speed:             req.Speed,
				AutoReturn:        boolOr(req.AutoReturn, true),
				ObstacleAvoidance: boolOr(req.ObstacleAvoidance, true),
				Geofencing:        boolOr(req.Geofencing, true),
			},
			ScheduledAt: req.ScheduledAt,
		})
		if err != nil {
			return errFromService(c, err)
		}

		c.Location("/v1/missions/" + m.ID)
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// ListMissionsHandler lists missions, optionally filtered by status and drone.
func ListMissionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		missions, err := deps.Missions.List(c.UserContext(), ports.MissionFilter{
			Status:  domain.MissionStatus(c.Query("status")),
			DroneID: c.Query("drone_id"),
		})
		if err != nil {
			return errFromService(c, err)
		}

		page, pg := paginate(c, missions, 50, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetMissionHandler returns a single mission.
func GetMissionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := deps.Missions.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		c.Set("Cache-Control", "no-cache")
		return c.JSON(m)
	}
}

// MissionPathHandler regenerates a mission's flight path. ?format=geojson
// returns a FeatureCollection.
func MissionPathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		m, err := deps.Missions.GetByID(ctx, c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		fp, err := deps.Missions.FlightPath(ctx, m.ID)
		if err != nil {
			return errFromService(c, err)
		}

		if c.Query("format") == "geojson" {
			data, err := json.Marshal(geojson.EncodePath(m.Area, fp))
			if err != nil {
				return errInternal(c, "encode geojson")
			}
			c.Set(fiber.HeaderContentType, geoJSONContentType)
			return c.Send(data)
		}
		return c.JSON(newPathResponse(fp))
	}
}

type transitionFunc func(ctx context.Context, id string) (*domain.Mission, error)

// MissionTransitionHandler applies a lifecycle transition (start, pause, ...).
func MissionTransitionHandler(apply transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := apply(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(m)
	}
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

// MissionProgressHandler records flight progress of an in-progress mission.
func MissionProgressHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req progressRequest
		if err := c.BodyParser(&req); err != nil || req.Progress == nil {
			return errBadRequest(c, "body must be {\"progress\": 0-100}")
		}
		m, err := deps.Missions.UpdateProgress(c.UserContext(), c.Params("id"), *req.Progress)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(m)
	}
}
