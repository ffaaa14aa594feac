package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, batch []domain.ChangeNotification) *domain.BatchResult {
	return m.Called(ctx, batch).Get(0).(*domain.BatchResult)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexMessage(ctx context.Context, body string) error {
	return m.Called(ctx, body).Error(0)
}

func s3Record(bucket, key string) events.S3EventRecord {
	var rec events.S3EventRecord
	rec.S3.Bucket.Name = bucket
	rec.S3.Object.Key = key
	rec.S3.Object.URLDecodedKey = key
	return rec
}

func TestS3Handler_ReturnsProcessedList(t *testing.T) {
	dispatcher := new(MockDispatcher)
	h := NewS3Handler(dispatcher)

	result := domain.NewBatchResult()
	result.Add(domain.Location{Bucket: "uploads", Key: "a.jpg"}, domain.Location{Bucket: "enhanced-images", Key: "enhanced/a.jpg"})
	dispatcher.On("Dispatch", mock.Anything, []domain.ChangeNotification{
		{SourceBucket: "uploads", SourceKey: "a.jpg"},
		{SourceBucket: "uploads", SourceKey: "missing.jpg"},
	}).Return(result)

	resp, err := h.HandleS3Event(context.Background(), events.S3Event{Records: []events.S3EventRecord{
		s3Record("uploads", "a.jpg"),
		s3Record("uploads", "missing.jpg"),
	}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{"processed":[{"source":"s3://uploads/a.jpg","enhanced":"s3://enhanced-images/enhanced/a.jpg"}]}`, resp.Body)
}

func TestS3Handler_EmptyEvent(t *testing.T) {
	dispatcher := new(MockDispatcher)
	h := NewS3Handler(dispatcher)
	dispatcher.On("Dispatch", mock.Anything, []domain.ChangeNotification{}).Return(domain.NewBatchResult())

	resp, err := h.HandleS3Event(context.Background(), events.S3Event{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"processed":[]}`, resp.Body)
}

func TestSQSHandler_ReportsPartialFailures(t *testing.T) {
	indexer := new(MockIndexer)
	h := NewSQSHandler(indexer)

	indexer.On("IndexMessage", mock.Anything, "ok").Return(nil)
	indexer.On("IndexMessage", mock.Anything, "bad").Return(errors.New("throttled"))

	resp, err := h.HandleSQSEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m-1", Body: "ok"},
		{MessageId: "m-2", Body: "bad"},
		{MessageId: "m-3", Body: "ok"},
	}})
	require.NoError(t, err)

	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m-2"}}, resp.BatchItemFailures)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"batchItemFailures":[{"itemIdentifier":"m-2"}]}`, string(body))
}

func TestSQSHandler_AllSucceed(t *testing.T) {
	indexer := new(MockIndexer)
	h := NewSQSHandler(indexer)
	indexer.On("IndexMessage", mock.Anything, mock.Anything).Return(nil)

	resp, err := h.HandleSQSEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m-1"}}})
	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)
}
