package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
)

// --- Mock MissionRepository ---

type mockMissionRepo struct {
	mu       sync.Mutex
	missions map[string]*domain.Mission
	listFn   func(ctx context.Context, filter ports.MissionFilter) ([]domain.Mission, error)
	createFn func(ctx context.Context, m *domain.Mission) error
	updateFn func(ctx context.Context, m *domain.Mission) error
}

func newMockMissionRepo() *mockMissionRepo {
	return &mockMissionRepo{missions: map[string]*domain.Mission{}}
}

func (m *mockMissionRepo) Create(ctx context.Context, mission *domain.Mission) error {
	if m.createFn != nil {
		return m.createFn(ctx, mission)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mission
	m.missions[mission.ID] = &cp
	return nil
}

func (m *mockMissionRepo) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.missions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *stored
	return &cp, nil
}

func (m *mockMissionRepo) List(ctx context.Context, filter ports.MissionFilter) ([]domain.Mission, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockMissionRepo) UpdateStatus(ctx context.Context, mission *domain.Mission) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, mission)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.missions[mission.ID]; !ok {
		return ports.ErrNotFound
	}
	cp := *mission
	m.missions[mission.ID] = &cp
	return nil
}

// --- Mock DroneRepository ---

type mockDroneRepo struct {
	mu     sync.Mutex
	drones map[string]*domain.Drone
	listFn func(ctx context.Context, status domain.DroneStatus) ([]domain.Drone, error)
}

func newMockDroneRepo(drones ...domain.Drone) *mockDroneRepo {
	r := &mockDroneRepo{drones: map[string]*domain.Drone{}}
	for i := range drones {
		d := drones[i]
		r.drones[d.ID] = &d
	}
	return r
}

func (m *mockDroneRepo) GetByID(ctx context.Context, id string) (*domain.Drone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drones[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDroneRepo) List(ctx context.Context, status domain.DroneStatus) ([]domain.Drone, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}

func (m *mockDroneRepo) SetStatus(ctx context.Context, id string, status domain.DroneStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drones[id]
	if !ok {
		return ports.ErrNotFound
	}
	d.Status = status
	return nil
}

func (m *mockDroneRepo) status(id string) domain.DroneStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drones[id].Status
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (c *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *mockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.MissionEvent
	paths  []domain.PathGeneratedEvent
	err    error
}

func (p *mockPublisher) PublishMissionEvent(ctx context.Context, e *domain.MissionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *e)
	return p.err
}

func (p *mockPublisher) PublishPathGenerated(ctx context.Context, e *domain.PathGeneratedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, *e)
	return p.err
}

func (p *mockPublisher) eventNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}
