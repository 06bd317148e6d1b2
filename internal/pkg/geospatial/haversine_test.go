package geospatial

import (
	"math"
	"testing"
	"time"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
)

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	d := Haversine(0, 0, 1, 0)
	if math.Abs(d-111195) > 10 {
		t.Errorf("expected ~111195 m, got %.1f", d)
	}
}

func TestPathLength(t *testing.T) {
	path := coverage.Path{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}}
	got := PathLength(path)
	want := 2 * Haversine(0, 0, 1, 0)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %.3f, got %.3f", want, got)
	}

	if PathLength(nil) != 0 {
		t.Error("expected zero length for empty path")
	}
}

func TestFlightDuration(t *testing.T) {
	if got := FlightDuration(500, 5); got != 100*time.Second {
		t.Errorf("expected 100s, got %s", got)
	}
	if got := FlightDuration(500, 0); got != 0 {
		t.Errorf("expected 0 for zero speed, got %s", got)
	}
}
