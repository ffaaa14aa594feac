package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

// GormOutcomeRepository implements OutcomeRepository using GORM.
type GormOutcomeRepository struct {
	db *gorm.DB
}

// NewGormOutcomeRepository creates a new GORM-based outcome repository.
func NewGormOutcomeRepository(db *gorm.DB) *GormOutcomeRepository {
	return &GormOutcomeRepository{db: db}
}

// PutOutcome upserts the outcome on its primary key.
func (r *GormOutcomeRepository) PutOutcome(ctx context.Context, outcome *domain.Outcome) error {
	model := domain.OutcomeToModel(outcome)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// GetOutcome retrieves an outcome by source key.
func (r *GormOutcomeRepository) GetOutcome(ctx context.Context, imageID string) (*domain.Outcome, error) {
	var model domain.OutcomeModel
	result := r.db.WithContext(ctx).First(&model, "image_id = ?", imageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOutcomeNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListOutcomes returns the most recent outcomes first.
func (r *GormOutcomeRepository) ListOutcomes(ctx context.Context, limit int) ([]*domain.Outcome, error) {
	var models []domain.OutcomeModel
	result := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	outcomes := make([]*domain.Outcome, 0, len(models))
	for i := range models {
		outcomes = append(outcomes, models[i].ToDomain())
	}
	return outcomes, nil
}
