package cache

import (
	"context"
	"time"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

// OutcomeCache caches outcome lookups by image id.
type OutcomeCache interface {
	Get(ctx context.Context, imageID string) (*domain.Outcome, error)
	Set(ctx context.Context, outcome *domain.Outcome, ttl time.Duration) error
	Close() error
}
