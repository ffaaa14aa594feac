package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

type MockSNS struct {
	mock.Mock
}

func (m *MockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

const topicARN = "arn:aws:sns:us-east-1:123456789012:image-enhanced"

func TestSNSNotifier_PublishEnhanced(t *testing.T) {
	client := new(MockSNS)
	n := NewSNSNotifier(client, topicARN)

	client.On("Publish", mock.Anything, mock.Anything).
		Return(&sns.PublishOutput{MessageId: aws.String("msg-1")}, nil)

	err := n.PublishEnhanced(context.Background(), domain.NewEnhancedEvent(
		domain.Location{Bucket: "uploads", Key: "cat.png"},
		domain.Location{Bucket: "enhanced-images", Key: "enhanced/cat.png"},
	))
	require.NoError(t, err)

	client.AssertNumberOfCalls(t, "Publish", 1)
	input := client.Calls[0].Arguments.Get(1).(*sns.PublishInput)
	assert.Equal(t, topicARN, aws.ToString(input.TopicArn))
	assert.Equal(t, "Image Enhanced", aws.ToString(input.Subject))
	assert.JSONEq(t, `{
		"status": "ENHANCED",
		"enhanced_image": {"bucket": "enhanced-images", "key": "enhanced/cat.png"},
		"source_image": {"bucket": "uploads", "key": "cat.png"}
	}`, aws.ToString(input.Message))
}

func TestSNSNotifier_PublishError(t *testing.T) {
	client := new(MockSNS)
	n := NewSNSNotifier(client, topicARN)
	publishErr := errors.New("AuthorizationError")
	client.On("Publish", mock.Anything, mock.Anything).Return(nil, publishErr)

	err := n.PublishEnhanced(context.Background(), domain.NewEnhancedEvent(domain.Location{}, domain.Location{}))
	assert.ErrorIs(t, err, publishErr)
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NopNotifier{}.PublishEnhanced(context.Background(), nil))
}
