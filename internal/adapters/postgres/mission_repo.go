package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
)

// MissionRepo implements ports.MissionRepository with pgx. The survey area
// is stored as a JSONB array of {x, y} points.
type MissionRepo struct {
	db *DB
}

// NewMissionRepo creates a new MissionRepo.
func NewMissionRepo(db *DB) *MissionRepo {
	return &MissionRepo{db: db}
}

const missionColumns = `id, name, COALESCE(location, ''), drone_id, pattern, area, subdivisions,
	altitude, overlap, speed, auto_return, obstacle_avoidance, geofencing,
	status, progress, waypoint_count, scheduled_at, started_at, completed_at,
	created_at, updated_at`

// Create inserts a new mission definition.
func (r *MissionRepo) Create(ctx context.Context, m *domain.Mission) error {
	area, err := json.Marshal(m.Area)
	if err != nil {
		return fmt.Errorf("encode area: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO missions (id, name, location, drone_id, pattern, area, subdivisions,
			altitude, overlap, speed, auto_return, obstacle_avoidance, geofencing,
			status, progress, waypoint_count, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, m.ID, m.Name, nilIfEmpty(m.Location), m.DroneID, m.Pattern.String(), area, m.Subdivisions,
		m.Params.Altitude, m.Params.Overlap, m.Params.Speed,
		m.Params.AutoReturn, m.Params.ObstacleAvoidance, m.Params.Geofencing,
		string(m.Status), m.Progress, m.WaypointCount, m.ScheduledAt, m.CreatedAt, m.UpdatedAt)
	return err
}

// GetByID returns a mission by UUID.
func (r *MissionRepo) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = $1`, id)
	m, err := scanMission(row)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// List returns missions matching the filter, newest first.
func (r *MissionRepo) List(ctx context.Context, filter ports.MissionFilter) ([]domain.Mission, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DroneID != "" {
		args = append(args, filter.DroneID)
		where = append(where, fmt.Sprintf("drone_id = $%d", len(args)))
	}

	q := `SELECT ` + missionColumns + ` FROM missions`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missions []domain.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, *m)
	}
	return missions, rows.Err()
}

// UpdateStatus persists the mutable lifecycle fields of a mission.
func (r *MissionRepo) UpdateStatus(ctx context.Context, m *domain.Mission) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE missions
		SET status = $2, progress = $3, started_at = $4, completed_at = $5, updated_at = $6
		WHERE id = $1
	`, m.ID, string(m.Status), m.Progress, m.StartedAt, m.CompletedAt, m.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func scanMission(row rowScanner) (*domain.Mission, error) {
	var (
		m       domain.Mission
		pattern string
		status  string
		area    []byte
	)
	if err := row.Scan(
		&m.ID, &m.Name, &m.Location, &m.DroneID, &pattern, &area, &m.Subdivisions,
		&m.Params.Altitude, &m.Params.Overlap, &m.Params.Speed,
		&m.Params.AutoReturn, &m.Params.ObstacleAvoidance, &m.Params.Geofencing,
		&status, &m.Progress, &m.WaypointCount, &m.ScheduledAt, &m.StartedAt, &m.CompletedAt,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p, err := coverage.ParsePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("mission %s: %w", m.ID, err)
	}
	m.Pattern = p
	m.Status = domain.MissionStatus(status)
	if err := json.Unmarshal(area, &m.Area); err != nil {
		return nil, fmt.Errorf("mission %s: decode area: %w", m.ID, err)
	}
	return &m, nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

var _ ports.MissionRepository = (*MissionRepo)(nil)
