package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	"github.com/weiawesome/wes-image-enhancer/pkg/database"
)

// GormImageRepository implements ImageRepository using GORM.
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GORM-based image repository.
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) PutImage(ctx context.Context, image *domain.ImageMetadata) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(domain.ImageMetadataToModel(image)).Error
}

func (r *GormImageRepository) GetImage(ctx context.Context, imageID string) (*domain.ImageMetadata, error) {
	var model domain.ImageMetadataModel
	result := r.db.WithContext(ctx).First(&model, "image_id = ?", imageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

func (r *GormImageRepository) ListImages(ctx context.Context, limit int) ([]*domain.ImageMetadata, error) {
	var models []domain.ImageMetadataModel
	if err := r.db.WithContext(ctx).Order("upload_time DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	images := make([]*domain.ImageMetadata, 0, len(models))
	for i := range models {
		images = append(images, models[i].ToDomain())
	}
	return images, nil
}

// Migrate creates or updates the tables used by the GORM repositories.
func Migrate(db *gorm.DB) error {
	return database.AutoMigrate(db, &domain.OutcomeModel{}, &domain.ImageMetadataModel{})
}
