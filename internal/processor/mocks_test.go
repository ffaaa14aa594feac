package processor

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

type MockOutcomeWriter struct {
	mock.Mock
}

func (m *MockOutcomeWriter) PutOutcome(ctx context.Context, outcome *domain.Outcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

// written returns every outcome passed to PutOutcome, in call order.
func (m *MockOutcomeWriter) written() []*domain.Outcome {
	var out []*domain.Outcome
	for _, c := range m.Calls {
		if c.Method == "PutOutcome" {
			out = append(out, c.Arguments.Get(1).(*domain.Outcome))
		}
	}
	return out
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishEnhanced(ctx context.Context, event *domain.EnhancedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockEnhancer struct {
	mock.Mock
}

func (m *MockEnhancer) Enhance(ctx context.Context, n domain.ChangeNotification) Result {
	args := m.Called(ctx, n)
	return args.Get(0).(Result)
}

func (m *MockEnhancer) RecordFailure(ctx context.Context, n domain.ChangeNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
