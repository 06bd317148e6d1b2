package domain

import (
	"time"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
)

// MissionStatus is the lifecycle state of a survey mission.
type MissionStatus string

const (
	MissionDraft      MissionStatus = "draft"
	MissionScheduled  MissionStatus = "scheduled"
	MissionInProgress MissionStatus = "in-progress"
	MissionPaused     MissionStatus = "paused"
	MissionCompleted  MissionStatus = "completed"
	MissionAborted    MissionStatus = "aborted"
)

// Terminal reports whether no further transitions are allowed.
func (s MissionStatus) Terminal() bool {
	return s == MissionCompleted || s == MissionAborted
}

// DroneStatus is the availability of a fleet drone.
type DroneStatus string

const (
	DroneAvailable   DroneStatus = "available"
	DroneInMission   DroneStatus = "in-mission"
	DroneCharging    DroneStatus = "charging"
	DroneMaintenance DroneStatus = "maintenance"
)

// Drone is a fleet aircraft (e.g. Surveyor-1, DJI Matrice 300 RTK).
type Drone struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Model           string      `json:"model"`
	Status          DroneStatus `json:"status"`
	Battery         int         `json:"battery"` // percent
	Location        string      `json:"location"`
	Online          bool        `json:"online"`
	FlightHours     float64     `json:"flight_hours"`
	LastMaintenance *time.Time  `json:"last_maintenance,omitempty"`
	Sensors         []string    `json:"sensors"`
	LastActiveAt    *time.Time  `json:"last_active_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// FlightParams are the per-mission flight settings chosen in the planner.
type FlightParams struct {
	Altitude          float64 `json:"altitude"` // meters
	Overlap           int     `json:"overlap"`  // image overlap percent
	Speed             float64 `json:"speed"`    // m/s
	AutoReturn        bool    `json:"auto_return"`
	ObstacleAvoidance bool    `json:"obstacle_avoidance"`
	Geofencing        bool    `json:"geofencing"`
}

// Mission is a stored survey mission definition. The flight path is not
// stored; it is regenerated from Area, Pattern and Subdivisions.
type Mission struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Location      string           `json:"location,omitempty"`
	DroneID       string           `json:"drone_id"`
	Pattern       coverage.Pattern `json:"pattern"`
	Area          coverage.Polygon `json:"area"`
	Subdivisions  int              `json:"subdivisions"`
	Params        FlightParams     `json:"params"`
	Status        MissionStatus    `json:"status"`
	Progress      int              `json:"progress"` // percent
	WaypointCount int              `json:"waypoint_count"`
	ScheduledAt   *time.Time       `json:"scheduled_at,omitempty"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// FlightPath is a generated waypoint sequence plus display statistics.
type FlightPath struct {
	Pattern           coverage.Pattern     `json:"pattern"`
	Subdivisions      int                  `json:"subdivisions"`
	Waypoints         coverage.Path        `json:"waypoints"`
	WaypointCount     int                  `json:"waypoint_count"`
	Bounds            coverage.BoundingBox `json:"bounds"`
	DistanceMeters    float64              `json:"distance_meters"`
	EstimatedDuration time.Duration        `json:"-"` // depends on speed, never cached
	GeneratedAt       time.Time            `json:"generated_at"`
}

// MissionEvent is published whenever a mission changes state.
type MissionEvent struct {
	MissionID string        `json:"mission_id"`
	DroneID   string        `json:"drone_id"`
	Event     string        `json:"event"` // created, started, paused, ...
	Status    MissionStatus `json:"status"`
	Progress  int           `json:"progress"`
	Time      time.Time     `json:"time"`
}

// PathGeneratedEvent announces a new flight path to display collaborators.
type PathGeneratedEvent struct {
	MissionID     string           `json:"mission_id,omitempty"`
	Pattern       coverage.Pattern `json:"pattern"`
	WaypointCount int              `json:"waypoint_count"`
	Time          time.Time        `json:"time"`
}
