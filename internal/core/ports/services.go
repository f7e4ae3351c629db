package ports

import (
	"context"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishActivations(ctx context.Context, profileID string, activations []domain.LineActivation) error
	PublishReportIssued(ctx context.Context, report *domain.BondReport) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeActivations(ctx context.Context, handler func(ctx context.Context, profileID string, activations []domain.LineActivation) error) error
	SubscribeReportIssued(ctx context.Context, handler func(ctx context.Context, report *domain.BondReport) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}
