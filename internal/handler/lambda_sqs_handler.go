package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// MessageIndexer indexes the objects named in one queue message.
type MessageIndexer interface {
	IndexMessage(ctx context.Context, body string) error
}

// SQSHandler is the Lambda entry point for the metadata queue.
type SQSHandler struct {
	indexer MessageIndexer
}

func NewSQSHandler(indexer MessageIndexer) *SQSHandler {
	return &SQSHandler{indexer: indexer}
}

// HandleSQSEvent indexes each message and reports the failed ones as batch
// item failures so only they are redelivered.
func (h *SQSHandler) HandleSQSEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	ctx = pkglog.LambdaContext(ctx)
	l := pkglog.Ctx(ctx)

	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, msg := range event.Records {
		if err := h.indexer.IndexMessage(ctx, msg.Body); err != nil {
			l.Error().Err(err).Str(pkglog.FieldMessageID, msg.MessageId).Msg("failed to index message")
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: msg.MessageId,
			})
		}
	}

	l.Info().
		Int(pkglog.FieldBatchSize, len(event.Records)).
		Int("failed", len(resp.BatchItemFailures)).
		Msg("sqs batch processed")

	return resp, nil
}
