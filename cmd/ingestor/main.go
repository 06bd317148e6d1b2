package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/skysurvey/internal/adapters/postgres"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/pkg/config"
	"github.com/samirrijal/skysurvey/internal/pkg/logging"
)

// ---------------------------------------------------------------------------
// Roster types
// ---------------------------------------------------------------------------

// Roster is a fleet inventory file, e.g.
//
//	source: hangar-export
//	drones:
//	  - id: d7
//	    name: Surveyor-7
//	    model: DJI Matrice 350 RTK
//	    status: available
//	    battery: 100
//	    sensors: [RGB Camera, LiDAR]
type Roster struct {
	Source string        `yaml:"source"`
	Drones []RosterDrone `yaml:"drones"`
}

type RosterDrone struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Model           string   `yaml:"model"`
	Status          string   `yaml:"status"`
	Battery         int      `yaml:"battery"`
	Location        string   `yaml:"location"`
	Online          *bool    `yaml:"online"`
	FlightHours     float64  `yaml:"flight_hours"`
	LastMaintenance string   `yaml:"last_maintenance"` // YYYY-MM-DD
	Sensors         []string `yaml:"sensors"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	cfg, err := config.Load("skysurvey-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", "skysurvey-ingestor")

	rosterPath := "fleet.yaml"
	if len(os.Args) > 1 {
		rosterPath = os.Args[1]
	}

	data, err := os.ReadFile(rosterPath)
	if err != nil {
		log.Fatalf("read roster: %v", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		log.Fatalf("parse roster: %v", err)
	}

	drones, err := roster.toDrones()
	if err != nil {
		log.Fatalf("roster %s: %v", rosterPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	start := time.Now()
	n, err := postgres.NewDroneRepo(db).Upsert(ctx, drones)
	if err != nil {
		log.Fatalf("upsert: %v", err)
	}

	slog.Info("fleet roster ingested",
		"source", roster.Source,
		"drones", n,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
}

func (r Roster) toDrones() ([]domain.Drone, error) {
	if len(r.Drones) == 0 {
		return nil, fmt.Errorf("no drones listed")
	}

	seen := make(map[string]bool, len(r.Drones))
	drones := make([]domain.Drone, 0, len(r.Drones))
	for i, rd := range r.Drones {
		id := strings.TrimSpace(rd.ID)
		if id == "" || strings.TrimSpace(rd.Name) == "" {
			return nil, fmt.Errorf("drone #%d: id and name are required", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("drone %s listed twice", id)
		}
		seen[id] = true

		status := domain.DroneStatus(rd.Status)
		switch status {
		case "":
			status = domain.DroneAvailable
		case domain.DroneAvailable, domain.DroneInMission, domain.DroneCharging, domain.DroneMaintenance:
		default:
			return nil, fmt.Errorf("drone %s: unknown status %q", id, rd.Status)
		}
		if rd.Battery < 0 || rd.Battery > 100 {
			return nil, fmt.Errorf("drone %s: battery must be 0-100", id)
		}

		d := domain.Drone{
			ID:          id,
			Name:        rd.Name,
			Model:       rd.Model,
			Status:      status,
			Battery:     rd.Battery,
			Location:    rd.Location,
			Online:      rd.Online == nil || *rd.Online,
			FlightHours: rd.FlightHours,
			Sensors:     rd.Sensors,
		}
		if rd.LastMaintenance != "" {
			t, err := time.Parse("2006-01-02", rd.LastMaintenance)
			if err != nil {
				return nil, fmt.Errorf("drone %s: last_maintenance: %w", id, err)
			}
			d.LastMaintenance = &t
		}
		drones = append(drones, d)
	}
	return drones, nil
}
