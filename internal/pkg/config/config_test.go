package config

import (
	"strings"
	"testing"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("skysurvey-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Planner.DefaultSubdivisions != 10 {
		t.Errorf("expected 10 subdivisions, got %d", cfg.Planner.DefaultSubdivisions)
	}
	if cfg.Planner.MaxWaypoints != coverage.DefaultMaxWaypoints {
		t.Errorf("expected max waypoints %d, got %d", coverage.DefaultMaxWaypoints, cfg.Planner.MaxWaypoints)
	}
	if cfg.Telemetry.ServiceName != "skysurvey-test" {
		t.Errorf("expected service name skysurvey-test, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SKYSURVEY_PLANNER_MAX_WAYPOINTS", "500")
	t.Setenv("SKYSURVEY_PLANNER_CROSSHATCH_TRANSIT", "nearest_corner")

	cfg, err := Load("skysurvey-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Planner.MaxWaypoints != 500 {
		t.Errorf("expected 500, got %d", cfg.Planner.MaxWaypoints)
	}

	opts, err := cfg.Planner.Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := coverage.New(opts...)
	if p.MaxWaypoints() != 500 || p.Transit() != coverage.TransitNearestCorner {
		t.Errorf("options not applied: max=%d transit=%s", p.MaxWaypoints(), p.Transit())
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{
		Planner: PlannerConfig{CrosshatchTransit: "teleport"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "database.host", "planner.default_subdivisions", "planner.crosshatch_transit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got:\n%s", want, err)
		}
	}
}
