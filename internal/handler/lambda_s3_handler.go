package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// BatchDispatcher runs a batch of notifications through the enhancement pipeline.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, batch []domain.ChangeNotification) *domain.BatchResult
}

// S3Handler is the Lambda entry point for S3 object-created events.
type S3Handler struct {
	dispatcher BatchDispatcher
}

func NewS3Handler(dispatcher BatchDispatcher) *S3Handler {
	return &S3Handler{dispatcher: dispatcher}
}

// HandleS3Event processes every record and always answers 200 with the list
// of enhanced items; per-item failures are reported through outcome records.
func (h *S3Handler) HandleS3Event(ctx context.Context, event events.S3Event) (events.APIGatewayProxyResponse, error) {
	ctx = pkglog.LambdaContext(ctx)
	l := pkglog.Ctx(ctx)
	l.Info().Int(pkglog.FieldBatchSize, len(event.Records)).Msg("s3 event received")

	result := h.dispatcher.Dispatch(ctx, domain.NotificationsFromS3Event(event))

	body, err := json.Marshal(result)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("failed to marshal batch result: %w", err)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
