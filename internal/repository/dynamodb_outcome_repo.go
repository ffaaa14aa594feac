package repository

import (
	"context"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

const outcomeKeyAttr = "ImageId"

// DynamoOutcomeRepository implements OutcomeRepository on a DynamoDB table
// whose partition key is ImageId.
type DynamoOutcomeRepository struct {
	table dynamoTable[domain.Outcome]
}

// NewDynamoOutcomeRepository creates a new DynamoDB-backed outcome repository.
func NewDynamoOutcomeRepository(client DynamoDBAPI, tableName string) *DynamoOutcomeRepository {
	return &DynamoOutcomeRepository{
		table: dynamoTable[domain.Outcome]{client: client, name: tableName, keyAttr: outcomeKeyAttr},
	}
}

// PutOutcome writes the outcome, replacing any earlier record for the key.
func (r *DynamoOutcomeRepository) PutOutcome(ctx context.Context, outcome *domain.Outcome) error {
	return r.table.put(ctx, outcome)
}

// GetOutcome retrieves the latest outcome for a source key.
func (r *DynamoOutcomeRepository) GetOutcome(ctx context.Context, imageID string) (*domain.Outcome, error) {
	outcome, err := r.table.get(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, ErrOutcomeNotFound
	}
	return outcome, nil
}

// ListOutcomes returns up to limit outcomes.
func (r *DynamoOutcomeRepository) ListOutcomes(ctx context.Context, limit int) ([]*domain.Outcome, error) {
	return r.table.scan(ctx, limit)
}
