package service

import (
	"context"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

// OutcomeView is an outcome with a time-limited URL to the enhanced object.
type OutcomeView struct {
	*domain.Outcome
	EnhancedURL string `json:"enhanced_url,omitempty"`
}

// QueryService serves the read side of outcomes and image metadata.
type QueryService interface {
	GetOutcome(ctx context.Context, imageID string) (*OutcomeView, error)
	ListOutcomes(ctx context.Context, limit int) ([]*domain.Outcome, error)
	GetImage(ctx context.Context, imageID string) (*domain.ImageMetadata, error)
	ListImages(ctx context.Context, limit int) ([]*domain.ImageMetadata, error)
}
