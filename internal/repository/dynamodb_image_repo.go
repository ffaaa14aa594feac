package repository

import (
	"context"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

const imageKeyAttr = "ImageId"

// DynamoImageRepository implements ImageRepository on a DynamoDB table.
type DynamoImageRepository struct {
	table dynamoTable[domain.ImageMetadata]
}

// NewDynamoImageRepository creates a new DynamoDB-backed image repository.
func NewDynamoImageRepository(client DynamoDBAPI, tableName string) *DynamoImageRepository {
	return &DynamoImageRepository{
		table: dynamoTable[domain.ImageMetadata]{client: client, name: tableName, keyAttr: imageKeyAttr},
	}
}

func (r *DynamoImageRepository) PutImage(ctx context.Context, image *domain.ImageMetadata) error {
	return r.table.put(ctx, image)
}

func (r *DynamoImageRepository) GetImage(ctx context.Context, imageID string) (*domain.ImageMetadata, error) {
	image, err := r.table.get(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (r *DynamoImageRepository) ListImages(ctx context.Context, limit int) ([]*domain.ImageMetadata, error) {
	return r.table.scan(ctx, limit)
}
