package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
)

// DroneRepo implements ports.DroneRepository with pgx.
type DroneRepo struct {
	db *DB
}

// NewDroneRepo creates a new DroneRepo.
func NewDroneRepo(db *DB) *DroneRepo {
	return &DroneRepo{db: db}
}

const droneColumns = `id, name, model, status, battery, COALESCE(location, ''), online,
	flight_hours, last_maintenance, sensors, last_active_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrone(row rowScanner) (*domain.Drone, error) {
	var d domain.Drone
	var status string
	if err := row.Scan(
		&d.ID, &d.Name, &d.Model, &status, &d.Battery, &d.Location, &d.Online,
		&d.FlightHours, &d.LastMaintenance, &d.Sensors, &d.LastActiveAt, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = domain.DroneStatus(status)
	return &d, nil
}

// GetByID returns a drone by ID.
func (r *DroneRepo) GetByID(ctx context.Context, id string) (*domain.Drone, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+droneColumns+` FROM drones WHERE id = $1`, id)
	d, err := scanDrone(row)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// List returns the fleet ordered by name. An empty status lists everything.
func (r *DroneRepo) List(ctx context.Context, status domain.DroneStatus) ([]domain.Drone, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+droneColumns+`
		FROM drones
		WHERE $1 = '' OR status = $1
		ORDER BY name
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drones []domain.Drone
	for rows.Next() {
		d, err := scanDrone(rows)
		if err != nil {
			return nil, err
		}
		drones = append(drones, *d)
	}
	return drones, rows.Err()
}

// SetStatus updates a drone's status and activity timestamp.
func (r *DroneRepo) SetStatus(ctx context.Context, id string, status domain.DroneStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE drones SET status = $2, last_active_at = now()
		WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Upsert inserts or updates drones in batches and returns how many rows
// were written. Status and battery of existing drones are overwritten.
func (r *DroneRepo) Upsert(ctx context.Context, drones []domain.Drone) (int, error) {
	const batchSize = 500
	total := 0
	for start := 0; start < len(drones); start += batchSize {
		end := start + batchSize
		if end > len(drones) {
			end = len(drones)
		}

		batch := &pgx.Batch{}
		for _, d := range drones[start:end] {
			sensors := d.Sensors
			if sensors == nil {
				sensors = []string{}
			}
			batch.Queue(`
				INSERT INTO drones (id, name, model, status, battery, location, online, flight_hours, last_maintenance, sensors)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, model = EXCLUDED.model, status = EXCLUDED.status,
				    battery = EXCLUDED.battery, location = EXCLUDED.location, online = EXCLUDED.online,
				    flight_hours = EXCLUDED.flight_hours, last_maintenance = EXCLUDED.last_maintenance,
				    sensors = EXCLUDED.sensors
			`, d.ID, d.Name, d.Model, string(d.Status), d.Battery, nilIfEmpty(d.Location), d.Online,
				d.FlightHours, d.LastMaintenance, sensors)
		}

		br := r.db.Pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return total, fmt.Errorf("upsert drone %s: %w", drones[i].ID, err)
			}
			total++
		}
		if err := br.Close(); err != nil {
			return total, err
		}
	}
	return total, nil
}

var _ ports.DroneRepository = (*DroneRepo)(nil)
