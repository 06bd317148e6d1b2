package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/metrics"
)

// MissionLauncher is the subset of the mission service the launch
// activities use. *usecases.MissionService implements it.
type MissionLauncher interface {
	GetByID(ctx context.Context, id string) (*domain.Mission, error)
	Start(ctx context.Context, id string) (*domain.Mission, error)
	Abort(ctx context.Context, id string) (*domain.Mission, error)
}

// LaunchActivities holds the activity implementations for the launch workflow.
type LaunchActivities struct {
	Missions MissionLauncher
}

// CheckScheduled reports whether the mission is still waiting for launch.
func (a *LaunchActivities) CheckScheduled(ctx context.Context, missionID string) (bool, error) {
	m, err := a.Missions.GetByID(ctx, missionID)
	if err != nil {
		if errors.Is(err, usecases.ErrMissionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get mission %s: %w", missionID, err)
	}
	return m.Status == domain.MissionScheduled, nil
}

// StartMission moves the mission in flight. Business rule failures are not
// retried.
func (a *LaunchActivities) StartMission(ctx context.Context, missionID string) error {
	if _, err := a.Missions.Start(ctx, missionID); err != nil {
		if errors.Is(err, usecases.ErrInvalidTransition) ||
			errors.Is(err, usecases.ErrMissionNotFound) ||
			errors.Is(err, usecases.ErrDroneUnavailable) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "MissionNotStartable", err)
		}
		return fmt.Errorf("start mission %s: %w", missionID, err)
	}
	metrics.MissionsLaunched.Inc()
	slog.InfoContext(ctx, "scheduled mission started", "mission_id", missionID)
	return nil
}

// AbortMission cancels a mission whose launch failed (saga compensation).
func (a *LaunchActivities) AbortMission(ctx context.Context, missionID string) error {
	if _, err := a.Missions.Abort(ctx, missionID); err != nil {
		if errors.Is(err, usecases.ErrInvalidTransition) {
			return nil // already terminal
		}
		return fmt.Errorf("abort mission %s: %w", missionID, err)
	}
	slog.WarnContext(ctx, "scheduled mission aborted", "mission_id", missionID)
	return nil
}
