package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

var (
	ErrOutcomeNotFound = errors.New("outcome not found")
	ErrImageNotFound   = errors.New("image not found")
)

// OutcomeRepository persists enhancement outcomes keyed by source key.
// PutOutcome overwrites any existing record for the same ImageID.
type OutcomeRepository interface {
	PutOutcome(ctx context.Context, outcome *domain.Outcome) error
	GetOutcome(ctx context.Context, imageID string) (*domain.Outcome, error)
	ListOutcomes(ctx context.Context, limit int) ([]*domain.Outcome, error)
}

// ImageRepository persists uploaded image metadata.
type ImageRepository interface {
	PutImage(ctx context.Context, image *domain.ImageMetadata) error
	GetImage(ctx context.Context, imageID string) (*domain.ImageMetadata, error)
	ListImages(ctx context.Context, limit int) ([]*domain.ImageMetadata, error)
}
