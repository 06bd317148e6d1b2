package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/skysurvey/internal/core/domain"
)

// MissionFilter narrows a mission listing. Zero values match everything.
type MissionFilter struct {
	Status  domain.MissionStatus
	DroneID string
}

// MissionRepository persists mission definitions.
type MissionRepository interface {
	Create(ctx context.Context, m *domain.Mission) error
	GetByID(ctx context.Context, id string) (*domain.Mission, error)
	List(ctx context.Context, filter MissionFilter) ([]domain.Mission, error)
	UpdateStatus(ctx context.Context, m *domain.Mission) error
}

// DroneRepository persists the fleet.
type DroneRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Drone, error)
	List(ctx context.Context, status domain.DroneStatus) ([]domain.Drone, error)
	SetStatus(ctx context.Context, id string, status domain.DroneStatus) error
}

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")
