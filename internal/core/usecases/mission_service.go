package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/pkg/metrics"
	"github.com/samirrijal/skysurvey/internal/pkg/telemetry"
)

var (
	ErrMissionNotFound   = errors.New("mission not found")
	ErrInvalidMission    = errors.New("invalid mission")
	ErrInvalidTransition = errors.New("invalid mission status transition")
	ErrDroneNotFound     = errors.New("drone not found")
	ErrDroneUnavailable  = errors.New("drone is not available")
)

// Flight parameter limits, matching the planner sliders.
const (
	MinAltitude     = 10.0
	MaxAltitude     = 120.0
	MinOverlap      = 50
	MaxOverlap      = 90
	MinSpeed        = 1.0
	MaxSpeed        = 10.0
	maxNameLength   = 200
	defaultAltitude = 50.0
	defaultOverlap  = 70
	defaultSpeed    = 5.0
)

// MissionDraft is the input of the "create mission" workflow.
type MissionDraft struct {
	Name         string
	Location     string
	DroneID      string
	Pattern      coverage.Pattern
	Area         coverage.Polygon
	Subdivisions int
	Params       domain.FlightParams
	ScheduledAt  *time.Time
}

// MissionService handles mission lifecycle business logic.
type MissionService struct {
	missions ports.MissionRepository
	drones   ports.DroneRepository
	paths    *PathService
	events   ports.EventPublisher
	now      func() time.Time
}

// NewMissionService creates a new MissionService. events may be nil.
func NewMissionService(missions ports.MissionRepository, drones ports.DroneRepository, paths *PathService, events ports.EventPublisher) *MissionService {
	return &MissionService{
		missions: missions,
		drones:   drones,
		paths:    paths,
		events:   events,
		now:      time.Now,
	}
}

// Create validates a draft, plans its path and stores the mission. The path
// itself is not stored; FlightPath regenerates it on demand.
func (s *MissionService) Create(ctx context.Context, draft MissionDraft) (*domain.Mission, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "MissionService.Create")
	defer span.End()

	now := s.now().UTC()
	if err := s.normalizeDraft(&draft, now); err != nil {
		return nil, err
	}

	drone, err := s.drones.GetByID(ctx, draft.DroneID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDroneNotFound, draft.DroneID)
		}
		return nil, fmt.Errorf("get drone: %w", err)
	}
	if drone.Status != domain.DroneAvailable {
		return nil, fmt.Errorf("%w: %s is %s", ErrDroneUnavailable, drone.Name, drone.Status)
	}

	id := uuid.NewString()
	span.SetAttributes(telemetry.AttrMissionID.String(id))

	fp, err := s.paths.Generate(ctx, PathRequest{
		Area:         draft.Area,
		Pattern:      draft.Pattern,
		Subdivisions: draft.Subdivisions,
		Speed:        draft.Params.Speed,
		MissionID:    id,
	})
	if err != nil {
		return nil, err
	}

	status := domain.MissionDraft
	if draft.ScheduledAt != nil {
		status = domain.MissionScheduled
	}

	m := &domain.Mission{
		ID:            id,
		Name:          draft.Name,
		Location:      draft.Location,
		DroneID:       draft.DroneID,
		Pattern:       draft.Pattern,
		Area:          draft.Area,
		Subdivisions:  fp.Subdivisions,
		Params:        draft.Params,
		Status:        status,
		WaypointCount: fp.WaypointCount,
		ScheduledAt:   draft.ScheduledAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.missions.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("store mission: %w", err)
	}

	metrics.MissionTransitions.WithLabelValues(string(status)).Inc()
	slog.InfoContext(ctx, "mission created",
		"mission_id", m.ID,
		"drone_id", m.DroneID,
		"pattern", m.Pattern.String(),
		"waypoints", m.WaypointCount,
	)
	s.publish(ctx, m, "created")

	return m, nil
}

// GetByID returns a mission by its ID.
func (s *MissionService) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	m, err := s.missions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, id)
		}
		return nil, err
	}
	return m, nil
}

// List returns missions matching the filter, newest first.
func (s *MissionService) List(ctx context.Context, filter ports.MissionFilter) ([]domain.Mission, error) {
	if filter.Status != "" && !validMissionStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidMission, filter.Status)
	}
	return s.missions.List(ctx, filter)
}

// FlightPath regenerates the path of a stored mission.
func (s *MissionService) FlightPath(ctx context.Context, id string) (*domain.FlightPath, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.paths.Generate(ctx, PathRequest{
		Area:         m.Area,
		Pattern:      m.Pattern,
		Subdivisions: m.Subdivisions,
		Speed:        m.Params.Speed,
		MissionID:    m.ID,
	})
}

// Start moves a draft or scheduled mission in flight. Its drone must
// still be available.
func (s *MissionService) Start(ctx context.Context, id string) (*domain.Mission, error) {
	return s.transition(ctx, id, "started", domain.MissionInProgress,
		[]domain.MissionStatus{domain.MissionDraft, domain.MissionScheduled},
		func(m *domain.Mission, now time.Time) (*droneMove, error) {
			drone, err := s.drones.GetByID(ctx, m.DroneID)
			if err != nil {
				return nil, fmt.Errorf("get drone %s: %w", m.DroneID, err)
			}
			if drone.Status != domain.DroneAvailable {
				return nil, fmt.Errorf("%w: %s is %s", ErrDroneUnavailable, drone.Name, drone.Status)
			}
			m.StartedAt = &now
			m.Progress = 0
			return &droneMove{from: domain.DroneAvailable, to: domain.DroneInMission}, nil
		})
}

// Pause holds an in-progress mission.
func (s *MissionService) Pause(ctx context.Context, id string) (*domain.Mission, error) {
	return s.transition(ctx, id, "paused", domain.MissionPaused,
		[]domain.MissionStatus{domain.MissionInProgress}, nil)
}

// Resume continues a paused mission.
func (s *MissionService) Resume(ctx context.Context, id string) (*domain.Mission, error) {
	return s.transition(ctx, id, "resumed", domain.MissionInProgress,
		[]domain.MissionStatus{domain.MissionPaused}, nil)
}

// Complete finishes an in-progress mission and frees its drone.
func (s *MissionService) Complete(ctx context.Context, id string) (*domain.Mission, error) {
	return s.transition(ctx, id, "completed", domain.MissionCompleted,
		[]domain.MissionStatus{domain.MissionInProgress},
		func(m *domain.Mission, now time.Time) (*droneMove, error) {
			m.CompletedAt = &now
			m.Progress = 100
			return &droneMove{from: domain.DroneInMission, to: domain.DroneAvailable}, nil
		})
}

// Abort cancels any mission that has not finished.
func (s *MissionService) Abort(ctx context.Context, id string) (*domain.Mission, error) {
	return s.transition(ctx, id, "aborted", domain.MissionAborted,
		[]domain.MissionStatus{domain.MissionDraft, domain.MissionScheduled, domain.MissionInProgress, domain.MissionPaused},
		func(m *domain.Mission, now time.Time) (*droneMove, error) {
			if m.StartedAt == nil {
				return nil, nil
			}
			return &droneMove{from: domain.DroneInMission, to: domain.DroneAvailable}, nil
		})
}

// UpdateProgress records flight progress (0-100) of an in-progress mission.
func (s *MissionService) UpdateProgress(ctx context.Context, id string, percent int) (*domain.Mission, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("%w: progress must be 0-100, got %d", ErrInvalidMission, percent)
	}
	return s.transition(ctx, id, "progress", domain.MissionInProgress,
		[]domain.MissionStatus{domain.MissionInProgress},
		func(m *domain.Mission, _ time.Time) (*droneMove, error) {
			m.Progress = percent
			return nil, nil
		})
}

// droneMove is a drone status change that goes with a mission transition.
type droneMove struct {
	from, to domain.DroneStatus
}

// transition applies a guarded status change. A drone move is written before
// the mission row and reverted if the mission cannot be saved.
func (s *MissionService) transition(
	ctx context.Context,
	id, event string,
	to domain.MissionStatus,
	from []domain.MissionStatus,
	apply func(m *domain.Mission, now time.Time) (*droneMove, error),
) (*domain.Mission, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, st := range from {
		if m.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s mission cannot be %s", ErrInvalidTransition, m.Status, event)
	}

	now := s.now().UTC()
	var move *droneMove
	if apply != nil {
		if move, err = apply(m, now); err != nil {
			return nil, err
		}
	}
	if move != nil {
		if err := s.setDroneStatus(ctx, m.DroneID, move.to); err != nil {
			return nil, err
		}
	}
	m.Status = to
	m.UpdatedAt = now

	if err := s.missions.UpdateStatus(ctx, m); err != nil {
		if move != nil {
			if rerr := s.setDroneStatus(ctx, m.DroneID, move.from); rerr != nil {
				slog.ErrorContext(ctx, "restore drone status failed", "mission_id", m.ID, "drone_id", m.DroneID, "error", rerr)
			}
		}
		return nil, fmt.Errorf("update mission: %w", err)
	}

	if event != "progress" {
		metrics.MissionTransitions.WithLabelValues(string(to)).Inc()
		slog.InfoContext(ctx, "mission status changed", "mission_id", m.ID, "status", m.Status)
	}
	s.publish(ctx, m, event)
	return m, nil
}

func (s *MissionService) setDroneStatus(ctx context.Context, droneID string, status domain.DroneStatus) error {
	if err := s.drones.SetStatus(ctx, droneID, status); err != nil {
		return fmt.Errorf("set drone %s %s: %w", droneID, status, err)
	}
	return nil
}

func (s *MissionService) publish(ctx context.Context, m *domain.Mission, event string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishMissionEvent(ctx, &domain.MissionEvent{
		MissionID: m.ID,
		DroneID:   m.DroneID,
		Event:     event,
		Status:    m.Status,
		Progress:  m.Progress,
		Time:      m.UpdatedAt,
	})
	if err != nil {
		slog.WarnContext(ctx, "publish mission event failed", "mission_id", m.ID, "event", event, "error", err)
	}
}

// normalizeDraft fills defaults and checks field ranges.
func (s *MissionService) normalizeDraft(d *MissionDraft, now time.Time) error {
	var errs []string

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		errs = append(errs, "name is required")
	} else if len(d.Name) > maxNameLength {
		errs = append(errs, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	if strings.TrimSpace(d.DroneID) == "" {
		errs = append(errs, "drone_id is required")
	}

	p := &d.Params
	if p.Altitude == 0 {
		p.Altitude = defaultAltitude
	}
	if p.Overlap == 0 {
		p.Overlap = defaultOverlap
	}
	if p.Speed == 0 {
		p.Speed = defaultSpeed
	}
	if p.Altitude < MinAltitude || p.Altitude > MaxAltitude {
		errs = append(errs, fmt.Sprintf("altitude must be %.0f-%.0f meters", MinAltitude, MaxAltitude))
	}
	if p.Overlap < MinOverlap || p.Overlap > MaxOverlap {
		errs = append(errs, fmt.Sprintf("overlap must be %d-%d percent", MinOverlap, MaxOverlap))
	}
	if p.Speed < MinSpeed || p.Speed > MaxSpeed {
		errs = append(errs, fmt.Sprintf("speed must be %.0f-%.0f m/s", MinSpeed, MaxSpeed))
	}
	if d.ScheduledAt != nil {
		if d.ScheduledAt.Before(now) {
			errs = append(errs, "scheduled_at must be in the future")
		} else {
			t := d.ScheduledAt.UTC()
			d.ScheduledAt = &t
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMission, strings.Join(errs, "; "))
	}
	return nil
}

func validMissionStatus(s domain.MissionStatus) bool {
	switch s {
	case domain.MissionDraft, domain.MissionScheduled, domain.MissionInProgress,
		domain.MissionPaused, domain.MissionCompleted, domain.MissionAborted:
		return true
	}
	return false
}
