package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/skysurvey/internal/adapters/nats"
	"github.com/samirrijal/skysurvey/internal/adapters/postgres"
	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/config"
	"github.com/samirrijal/skysurvey/internal/pkg/logging"
	"github.com/samirrijal/skysurvey/internal/workflows"
)

func main() {
	cfg, err := config.Load("skysurvey-scheduler")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, "skysurvey-scheduler")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats publisher unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	plannerOpts, err := cfg.Planner.Options()
	if err != nil {
		log.Fatalf("planner: %v", err)
	}
	paths := usecases.NewPathService(coverage.New(plannerOpts...), nil, events, usecases.PathDefaults{
		Subdivisions: cfg.Planner.DefaultSubdivisions,
	})
	missions := usecases.NewMissionService(postgres.NewMissionRepo(db), postgres.NewDroneRepo(db), paths, events)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	l := &launcher{client: c, missions: missions, taskQueue: cfg.Temporal.TaskQueue}

	// Pick up missions scheduled while the scheduler was down.
	if err := l.reconcile(ctx); err != nil {
		slog.Warn("reconcile scheduled missions", "error", err)
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()
	if err := sub.SubscribeMissionEvents(ctx, "created", l.onCreated); err != nil {
		log.Fatalf("subscribe created: %v", err)
	}
	if err := sub.SubscribeMissionEvents(ctx, "aborted", l.onAborted); err != nil {
		log.Fatalf("subscribe aborted: %v", err)
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.MissionLaunchWorkflow)
	w.RegisterActivity(&workflows.LaunchActivities{Missions: missions})

	slog.Info("scheduler worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// launcher turns scheduled missions into launch workflows.
type launcher struct {
	client    client.Client
	missions  *usecases.MissionService
	taskQueue string
}

func (l *launcher) launch(ctx context.Context, m *domain.Mission) error {
	if m.Status != domain.MissionScheduled || m.ScheduledAt == nil {
		return nil
	}
	// Starting an already running workflow ID returns the existing run.
	run, err := l.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflows.LaunchWorkflowID(m.ID),
		TaskQueue: l.taskQueue,
	}, workflows.MissionLaunchWorkflow, workflows.LaunchInput{
		MissionID:   m.ID,
		ScheduledAt: *m.ScheduledAt,
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "launch workflow started",
		"mission_id", m.ID,
		"scheduled_at", m.ScheduledAt,
		"run_id", run.GetRunID(),
	)
	return nil
}

func (l *launcher) onCreated(ctx context.Context, e *domain.MissionEvent) error {
	if e.Status != domain.MissionScheduled {
		return nil
	}
	m, err := l.missions.GetByID(ctx, e.MissionID)
	if err != nil {
		return err
	}
	return l.launch(ctx, m)
}

func (l *launcher) onAborted(ctx context.Context, e *domain.MissionEvent) error {
	err := l.client.CancelWorkflow(ctx, workflows.LaunchWorkflowID(e.MissionID), "")
	if err != nil {
		// no launch workflow for missions that were never scheduled
		slog.DebugContext(ctx, "cancel launch workflow", "mission_id", e.MissionID, "error", err)
	}
	return nil
}

func (l *launcher) reconcile(ctx context.Context) error {
	scheduled, err := l.missions.List(ctx, ports.MissionFilter{Status: domain.MissionScheduled})
	if err != nil {
		return err
	}
	for i := range scheduled {
		if err := l.launch(ctx, &scheduled[i]); err != nil {
			slog.Warn("launch workflow", "mission_id", scheduled[i].ID, "error", err)
		}
	}
	return nil
}
