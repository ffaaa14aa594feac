package processor

import (
	"context"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

// Enhancer runs the per-item pipeline for one notification. RecordFailure
// writes a FAILED outcome for an item whose Enhance call did not return.
type Enhancer interface {
	Enhance(ctx context.Context, n domain.ChangeNotification) Result
	RecordFailure(ctx context.Context, n domain.ChangeNotification) error
}

// OutcomeWriter persists the outcome record for a processed notification.
type OutcomeWriter interface {
	PutOutcome(ctx context.Context, outcome *domain.Outcome) error
}

// Notifier announces a successful enhancement.
type Notifier interface {
	PublishEnhanced(ctx context.Context, event *domain.EnhancedEvent) error
}
