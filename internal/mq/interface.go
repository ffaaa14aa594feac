package mq

import (
	"context"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

// BatchDispatcher is the business-logic callback injected into the consumer.
// Each Kafka message becomes one batch.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, batch []domain.ChangeNotification) *domain.BatchResult
}

// NotificationConsumer abstracts the Kafka consumer for object-store events.
type NotificationConsumer interface {
	Start(ctx context.Context) error
	Close() error
}

// EnhancedEventPublisher abstracts the Kafka producer for enhanced events.
type EnhancedEventPublisher interface {
	PublishEnhanced(ctx context.Context, event *domain.EnhancedEvent) error
	Close() error
}
