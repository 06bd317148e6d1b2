package ports

import (
	"context"

	"github.com/samirrijal/skysurvey/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishMissionEvent(ctx context.Context, event *domain.MissionEvent) error
	PublishPathGenerated(ctx context.Context, event *domain.PathGeneratedEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeMissionEvents(ctx context.Context, event string, handler func(ctx context.Context, event *domain.MissionEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
