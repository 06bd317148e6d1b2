package main

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/skysurvey/internal/core/domain"
)

const sampleRoster = `
source: hangar-export
drones:
  - id: d7
    name: Surveyor-7
    model: DJI Matrice 350 RTK
    battery: 100
    last_maintenance: 2026-03-01
    sensors: [RGB Camera, LiDAR]
  - id: d8
    name: Surveyor-8
    model: Autel EVO II
    status: maintenance
    online: false
`

func TestRosterToDrones(t *testing.T) {
	var r Roster
	if err := yaml.Unmarshal([]byte(sampleRoster), &r); err != nil {
		t.Fatal(err)
	}
	drones, err := r.toDrones()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drones) != 2 {
		t.Fatalf("expected 2 drones, got %d", len(drones))
	}
	if drones[0].Status != domain.DroneAvailable || !drones[0].Online || drones[0].LastMaintenance == nil {
		t.Errorf("unexpected defaults for d7: %+v", drones[0])
	}
	if drones[1].Status != domain.DroneMaintenance || drones[1].Online {
		t.Errorf("unexpected d8: %+v", drones[1])
	}
}

func TestRosterToDrones_Errors(t *testing.T) {
	tests := []struct {
		roster string
		want   string
	}{
		{"drones: []", "no drones"},
		{"drones: [{id: d1}]", "id and name"},
		{"drones: [{id: d1, name: a}, {id: d1, name: b}]", "listed twice"},
		{"drones: [{id: d1, name: a, status: flying}]", "unknown status"},
		{"drones: [{id: d1, name: a, battery: 140}]", "battery"},
		{"drones: [{id: d1, name: a, last_maintenance: May}]", "last_maintenance"},
	}
	for _, tt := range tests {
		var r Roster
		if err := yaml.Unmarshal([]byte(tt.roster), &r); err != nil {
			t.Fatalf("%s: %v", tt.roster, err)
		}
		_, err := r.toDrones()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.roster, tt.want, err)
		}
	}
}
