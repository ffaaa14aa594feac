package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// SNSAPI is the subset of the SNS client used by SNSNotifier.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes enhanced events to an SNS topic.
type SNSNotifier struct {
	client   SNSAPI
	topicARN string
}

// NewSNSNotifier creates a notifier for the given topic.
func NewSNSNotifier(client SNSAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

// PublishEnhanced sends the event as a JSON message with a fixed subject.
func (n *SNSNotifier) PublishEnhanced(ctx context.Context, event *domain.EnhancedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal enhanced event: %w", err)
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(domain.EnhancedEventSubject),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.topicARN, err)
	}

	l := pkglog.Ctx(ctx)
	l.Debug().
		Str(pkglog.FieldTopic, n.topicARN).
		Str(pkglog.FieldMessageID, aws.ToString(out.MessageId)).
		Msg("enhanced event published")
	return nil
}

// NopNotifier discards events. It is used when no topic is configured.
type NopNotifier struct{}

func (NopNotifier) PublishEnhanced(context.Context, *domain.EnhancedEvent) error { return nil }
