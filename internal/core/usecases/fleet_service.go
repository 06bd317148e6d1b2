package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
)

// ErrInvalidDroneStatus is returned for an unknown status filter.
var ErrInvalidDroneStatus = errors.New("invalid drone status")

// FleetService exposes the drone fleet.
type FleetService struct {
	drones ports.DroneRepository
}

// NewFleetService creates a new FleetService.
func NewFleetService(drones ports.DroneRepository) *FleetService {
	return &FleetService{drones: drones}
}

// List returns drones, optionally narrowed to one status.
func (s *FleetService) List(ctx context.Context, status domain.DroneStatus) ([]domain.Drone, error) {
	switch status {
	case "", domain.DroneAvailable, domain.DroneInMission, domain.DroneCharging, domain.DroneMaintenance:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDroneStatus, status)
	}
	return s.drones.List(ctx, status)
}

// GetByID returns a single drone.
func (s *FleetService) GetByID(ctx context.Context, id string) (*domain.Drone, error) {
	d, err := s.drones.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDroneNotFound, id)
		}
		return nil, err
	}
	return d, nil
}
