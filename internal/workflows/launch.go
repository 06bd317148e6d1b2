package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// LaunchInput is the input for the mission launch workflow.
type LaunchInput struct {
	MissionID   string
	ScheduledAt time.Time
}

// LaunchWorkflowID is the workflow ID for a mission's launch. One launch
// workflow exists per mission.
func LaunchWorkflowID(missionID string) string {
	return "mission-launch-" + missionID
}

// MissionLaunchWorkflow waits until the scheduled start, then starts the
// mission. A mission that left the scheduled state meanwhile is skipped. If
// the start fails the mission is aborted (saga compensation) so it does not
// stay scheduled in the past.
func MissionLaunchWorkflow(ctx workflow.Context, input LaunchInput) error {
	logger := workflow.GetLogger(ctx)

	if wait := input.ScheduledAt.Sub(workflow.Now(ctx)); wait > 0 {
		logger.Info("Waiting for scheduled start", "missionID", input.MissionID, "wait", wait)
		if err := workflow.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: make sure nobody started or aborted it by hand
	var scheduled bool
	if err := workflow.ExecuteActivity(ctx, "CheckScheduled", input.MissionID).Get(ctx, &scheduled); err != nil {
		return err
	}
	if !scheduled {
		logger.Info("Mission no longer scheduled, skipping launch", "missionID", input.MissionID)
		return nil
	}

	// Step 2: start the mission
	err := workflow.ExecuteActivity(ctx, "StartMission", input.MissionID).Get(ctx, nil)
	if err != nil {
		logger.Warn("mission start failed, compensating", "missionID", input.MissionID, "error", err)
		_ = workflow.ExecuteActivity(ctx, "AbortMission", input.MissionID).Get(ctx, nil)
		return err
	}

	logger.Info("Mission launched", "missionID", input.MissionID)
	return nil
}
