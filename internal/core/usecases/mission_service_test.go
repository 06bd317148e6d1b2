package usecases_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
)

func newMissionFixture(t *testing.T) (*usecases.MissionService, *mockMissionRepo, *mockDroneRepo, *mockPublisher) {
	t.Helper()
	missions := newMockMissionRepo()
	drones := newMockDroneRepo(
		domain.Drone{ID: "d-1", Name: "Surveyor-1", Status: domain.DroneAvailable, Battery: 95},
		domain.Drone{ID: "d-2", Name: "Surveyor-2", Status: domain.DroneCharging, Battery: 20},
	)
	pub := &mockPublisher{}
	paths := usecases.NewPathService(coverage.New(), nil, nil, usecases.PathDefaults{})
	return usecases.NewMissionService(missions, drones, paths, pub), missions, drones, pub
}

func validDraft() usecases.MissionDraft {
	return usecases.MissionDraft{
		Name:         "North field survey",
		Location:     "Farm plot 7",
		DroneID:      "d-1",
		Pattern:      coverage.Grid,
		Area:         unitSquare,
		Subdivisions: 10,
		Params:       domain.FlightParams{Altitude: 60, Overlap: 75, Speed: 6},
	}
}

func TestMissionService_Create(t *testing.T) {
	svc, repo, _, pub := newMissionFixture(t)

	m, err := svc.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected generated ID")
	}
	if m.Status != domain.MissionDraft {
		t.Errorf("expected draft status, got %s", m.Status)
	}
	if m.WaypointCount != 22 {
		t.Errorf("expected 22 waypoints, got %d", m.WaypointCount)
	}
	if _, err := repo.GetByID(context.Background(), m.ID); err != nil {
		t.Errorf("mission not stored: %v", err)
	}
	if got := pub.eventNames(); !reflect.DeepEqual(got, []string{"created"}) {
		t.Errorf("expected [created] events, got %v", got)
	}
}

func TestMissionService_Create_Defaults(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	d := validDraft()
	d.Params = domain.FlightParams{}

	m, err := svc.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Params.Altitude != 50 || m.Params.Overlap != 70 || m.Params.Speed != 5 {
		t.Errorf("unexpected defaults %+v", m.Params)
	}
}

func TestMissionService_Create_Scheduled(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	d := validDraft()
	at := time.Now().Add(time.Hour)
	d.ScheduledAt = &at

	m, err := svc.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != domain.MissionScheduled {
		t.Errorf("expected scheduled status, got %s", m.Status)
	}
}

func TestMissionService_Create_Invalid(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tests := []struct {
		name   string
		mutate func(*usecases.MissionDraft)
		want   error
	}{
		{"missing name", func(d *usecases.MissionDraft) { d.Name = "  " }, usecases.ErrInvalidMission},
		{"missing drone", func(d *usecases.MissionDraft) { d.DroneID = "" }, usecases.ErrInvalidMission},
		{"altitude too high", func(d *usecases.MissionDraft) { d.Params.Altitude = 150 }, usecases.ErrInvalidMission},
		{"overlap too low", func(d *usecases.MissionDraft) { d.Params.Overlap = 30 }, usecases.ErrInvalidMission},
		{"speed too high", func(d *usecases.MissionDraft) { d.Params.Speed = 12 }, usecases.ErrInvalidMission},
		{"schedule in past", func(d *usecases.MissionDraft) { d.ScheduledAt = &past }, usecases.ErrInvalidMission},
		{"unknown drone", func(d *usecases.MissionDraft) { d.DroneID = "d-9" }, usecases.ErrDroneNotFound},
		{"busy drone", func(d *usecases.MissionDraft) { d.DroneID = "d-2" }, usecases.ErrDroneUnavailable},
		{"no area", func(d *usecases.MissionDraft) { d.Area = nil }, coverage.ErrNoAreaDefined},
		{"degenerate area", func(d *usecases.MissionDraft) { d.Area = unitSquare[:2] }, coverage.ErrDegeneratePolygon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, pub := newMissionFixture(t)
			d := validDraft()
			tt.mutate(&d)

			_, err := svc.Create(context.Background(), d)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(pub.events) != 0 {
				t.Errorf("expected no events, got %v", pub.eventNames())
			}
		})
	}
}

func TestMissionService_Lifecycle(t *testing.T) {
	svc, _, drones, pub := newMissionFixture(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if m, err = svc.Start(ctx, m.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.Status != domain.MissionInProgress || m.StartedAt == nil {
		t.Fatalf("expected in-progress with start time, got %+v", m)
	}
	if drones.status("d-1") != domain.DroneInMission {
		t.Errorf("expected drone in-mission, got %s", drones.status("d-1"))
	}

	if m, err = svc.UpdateProgress(ctx, m.ID, 40); err != nil {
		t.Fatalf("progress: %v", err)
	}
	if m.Progress != 40 {
		t.Errorf("expected progress 40, got %d", m.Progress)
	}

	if m, err = svc.Pause(ctx, m.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := svc.UpdateProgress(ctx, m.ID, 50); !errors.Is(err, usecases.ErrInvalidTransition) {
		t.Errorf("expected progress on paused mission to fail, got %v", err)
	}
	if m, err = svc.Resume(ctx, m.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if m.Progress != 40 {
		t.Errorf("pause/resume must keep progress, got %d", m.Progress)
	}

	if m, err = svc.Complete(ctx, m.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if m.Status != domain.MissionCompleted || m.Progress != 100 || m.CompletedAt == nil {
		t.Errorf("unexpected completed mission %+v", m)
	}
	if drones.status("d-1") != domain.DroneAvailable {
		t.Errorf("expected drone available after completion, got %s", drones.status("d-1"))
	}

	want := []string{"created", "started", "progress", "paused", "resumed", "completed"}
	if got := pub.eventNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected events %v, got %v", want, got)
	}
}

func TestMissionService_InvalidTransitions(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Pause(ctx, m.ID); !errors.Is(err, usecases.ErrInvalidTransition) {
		t.Errorf("pause of draft: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Resume(ctx, m.ID); !errors.Is(err, usecases.ErrInvalidTransition) {
		t.Errorf("resume of draft: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Complete(ctx, m.ID); !errors.Is(err, usecases.ErrInvalidTransition) {
		t.Errorf("complete of draft: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Abort(ctx, m.ID); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, err := svc.Start(ctx, m.ID); !errors.Is(err, usecases.ErrInvalidTransition) {
		t.Errorf("start of aborted: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Abort(ctx, m.ID); !errors.Is(err, usecases.ErrInvalidTransition) {
		t.Errorf("abort of aborted: expected ErrInvalidTransition, got %v", err)
	}
}

func TestMissionService_AbortFreesDrone(t *testing.T) {
	svc, _, drones, _ := newMissionFixture(t)
	ctx := context.Background()

	m, _ := svc.Create(ctx, validDraft())
	if _, err := svc.Start(ctx, m.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Abort(ctx, m.ID); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if drones.status("d-1") != domain.DroneAvailable {
		t.Errorf("expected drone available, got %s", drones.status("d-1"))
	}
}

func TestMissionService_UpdateProgress_Range(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	for _, p := range []int{-1, 101} {
		if _, err := svc.UpdateProgress(context.Background(), "any", p); !errors.Is(err, usecases.ErrInvalidMission) {
			t.Errorf("progress %d: expected ErrInvalidMission, got %v", p, err)
		}
	}
}

func TestMissionService_NotFound(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, usecases.ErrMissionNotFound) {
		t.Errorf("expected ErrMissionNotFound, got %v", err)
	}
	if _, err := svc.Start(context.Background(), "nope"); !errors.Is(err, usecases.ErrMissionNotFound) {
		t.Errorf("expected ErrMissionNotFound, got %v", err)
	}
}

func TestMissionService_FlightPathRegenerated(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	d := validDraft()
	d.Pattern = coverage.Crosshatch
	d.Subdivisions = 3

	m, err := svc.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fp, err := svc.FlightPath(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("flight path: %v", err)
	}
	if fp.WaypointCount != m.WaypointCount || fp.WaypointCount != 16 {
		t.Errorf("expected 16 waypoints matching mission, got %d (mission %d)", fp.WaypointCount, m.WaypointCount)
	}

	want, _ := coverage.GeneratePath(d.Area, d.Pattern, d.Subdivisions)
	if !reflect.DeepEqual(fp.Waypoints, want) {
		t.Error("regenerated path differs from direct planner output")
	}
}

func TestMissionService_List(t *testing.T) {
	svc, repo, _, _ := newMissionFixture(t)
	var got ports.MissionFilter
	repo.listFn = func(ctx context.Context, filter ports.MissionFilter) ([]domain.Mission, error) {
		got = filter
		return []domain.Mission{{ID: "m-1"}}, nil
	}

	list, err := svc.List(context.Background(), ports.MissionFilter{Status: domain.MissionPaused, DroneID: "d-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || got.Status != domain.MissionPaused || got.DroneID != "d-1" {
		t.Errorf("unexpected result %v with filter %+v", list, got)
	}

	if _, err := svc.List(context.Background(), ports.MissionFilter{Status: "flying"}); !errors.Is(err, usecases.ErrInvalidMission) {
		t.Errorf("expected ErrInvalidMission for unknown status, got %v", err)
	}
}

func TestMissionService_StartNeedsFreeDrone(t *testing.T) {
	svc, _, _, _ := newMissionFixture(t)
	ctx := context.Background()

	first, _ := svc.Create(ctx, validDraft())
	second, _ := svc.Create(ctx, validDraft())
	if _, err := svc.Start(ctx, first.ID); err != nil {
		t.Fatalf("start first: %v", err)
	}
	if _, err := svc.Start(ctx, second.ID); !errors.Is(err, usecases.ErrDroneUnavailable) {
		t.Fatalf("expected ErrDroneUnavailable, got %v", err)
	}

	got, _ := svc.GetByID(ctx, second.ID)
	if got.Status != domain.MissionDraft {
		t.Errorf("failed start must leave mission draft, got %s", got.Status)
	}
}

func TestMissionService_FailedSaveRestoresDrone(t *testing.T) {
	svc, missions, drones, _ := newMissionFixture(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	errDown := errors.New("db down")
	missions.updateFn = func(ctx context.Context, m *domain.Mission) error { return errDown }
	if _, err := svc.Start(ctx, m.ID); !errors.Is(err, errDown) {
		t.Fatalf("expected db error, got %v", err)
	}
	got, _ := svc.GetByID(ctx, m.ID)
	if got.Status != domain.MissionDraft {
		t.Errorf("expected mission to stay draft, got %s", got.Status)
	}
	if st := drones.status("d-1"); st != domain.DroneAvailable {
		t.Errorf("expected drone available after failed start, got %s", st)
	}

	missions.updateFn = nil
	if _, err := svc.Start(ctx, m.ID); err != nil {
		t.Fatalf("retry start: %v", err)
	}

	missions.updateFn = func(ctx context.Context, m *domain.Mission) error { return errDown }
	if _, err := svc.Complete(ctx, m.ID); !errors.Is(err, errDown) {
		t.Fatalf("expected db error, got %v", err)
	}
	if st := drones.status("d-1"); st != domain.DroneInMission {
		t.Errorf("expected drone still in mission after failed complete, got %s", st)
	}
}
