package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
)

func notification(bucket, key string) domain.ChangeNotification {
	return domain.ChangeNotification{SourceBucket: bucket, SourceKey: key}
}

func enhancedResult(bucket, key string) Result {
	return Result{
		Status:   domain.StatusEnhanced,
		Source:   domain.Location{Bucket: bucket, Key: key},
		Enhanced: domain.Location{Bucket: "target", Key: "enhanced/" + key},
	}
}

func TestDispatcher_EmptyBatch(t *testing.T) {
	enhancer := new(MockEnhancer)
	d := NewDispatcher(enhancer, "enhanced/", nil)

	res := d.Dispatch(context.Background(), nil)

	require.NotNil(t, res.Processed)
	assert.Empty(t, res.Processed)
	enhancer.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
}

func TestDispatcher_SkipsMalformedAndLoopRecords(t *testing.T) {
	enhancer := new(MockEnhancer)
	collector := metrics.NewCollector("test")
	d := NewDispatcher(enhancer, "enhanced/", collector)

	res := d.Dispatch(context.Background(), []domain.ChangeNotification{
		notification("", "a.jpg"),
		notification("b", ""),
		notification("b", "enhanced/a.jpg"),
	})

	assert.Empty(t, res.Processed)
	enhancer.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Skipped.WithLabelValues(metrics.SkipMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Skipped.WithLabelValues(metrics.SkipLoop)))
}

func TestDispatcher_CollectsOnlyEnhancedInOrder(t *testing.T) {
	enhancer := new(MockEnhancer)
	collector := metrics.NewCollector("test")
	d := NewDispatcher(enhancer, "enhanced/", collector)

	enhancer.On("Enhance", mock.Anything, notification("b", "one.jpg")).Return(enhancedResult("b", "one.jpg"))
	enhancer.On("Enhance", mock.Anything, notification("b", "gone.jpg")).Return(Result{
		Status: domain.StatusNotFound,
		Source: domain.Location{Bucket: "b", Key: "gone.jpg"},
	})
	enhancer.On("Enhance", mock.Anything, notification("b", "bad.jpg")).Return(Result{
		Status: domain.StatusFailed,
		Source: domain.Location{Bucket: "b", Key: "bad.jpg"},
		Err:    errors.New("decode image: unknown format"),
	})
	enhancer.On("Enhance", mock.Anything, notification("b", "two.png")).Return(enhancedResult("b", "two.png"))

	res := d.Dispatch(context.Background(), []domain.ChangeNotification{
		notification("b", "one.jpg"),
		notification("b", "gone.jpg"),
		notification("b", "enhanced/one.jpg"),
		notification("b", "bad.jpg"),
		notification("b", "two.png"),
	})

	assert.Equal(t, []domain.ProcessedItem{
		{Source: "s3://b/one.jpg", Enhanced: "s3://target/enhanced/one.jpg"},
		{Source: "s3://b/two.png", Enhanced: "s3://target/enhanced/two.png"},
	}, res.Processed)
	enhancer.AssertNumberOfCalls(t, "Enhance", 4)
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Outcomes.WithLabelValues("ENHANCED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Outcomes.WithLabelValues("NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Outcomes.WithLabelValues("FAILED")))
}

func TestDispatcher_PanickingItemDoesNotAbortBatch(t *testing.T) {
	enhancer := new(MockEnhancer)
	d := NewDispatcher(enhancer, "enhanced/", nil)

	enhancer.On("Enhance", mock.Anything, notification("b", "boom.jpg")).Panic("corrupt decoder state")
	enhancer.On("RecordFailure", mock.Anything, notification("b", "boom.jpg")).Return(nil).Once()
	enhancer.On("Enhance", mock.Anything, notification("b", "ok.jpg")).Return(enhancedResult("b", "ok.jpg"))

	res := d.Dispatch(context.Background(), []domain.ChangeNotification{
		notification("b", "boom.jpg"),
		notification("b", "ok.jpg"),
	})

	require.Len(t, res.Processed, 1)
	assert.Equal(t, "s3://b/ok.jpg", res.Processed[0].Source)
	enhancer.AssertExpectations(t)
}

func TestDispatcher_PanicRecordsFailedOutcome(t *testing.T) {
	f := newEnhancerFixture(t)
	f.outcomes.On("PutOutcome", mock.Anything, mock.Anything).Return(nil)

	enhancer := &panickingEnhancer{ImageEnhancer: f.enhancer}
	d := NewDispatcher(enhancer, "enhanced/", nil)

	res := d.Dispatch(context.Background(), []domain.ChangeNotification{
		notification(sourceBucket, "boom.jpg"),
	})

	assert.Empty(t, res.Processed)
	written := f.outcomes.written()
	require.Len(t, written, 1)
	assert.Equal(t, domain.StatusFailed, written[0].Status)
	assert.Equal(t, "boom.jpg", written[0].ImageID)
	assert.Empty(t, written[0].EnhancedKey)
}

func TestDispatcher_EmptyPrefixSkipsEverything(t *testing.T) {
	enhancer := new(MockEnhancer)
	collector := metrics.NewCollector("test")
	d := NewDispatcher(enhancer, "", collector)

	res := d.Dispatch(context.Background(), []domain.ChangeNotification{
		notification("b", "a.jpg"),
		notification("b", "photos/b.png"),
	})

	assert.Empty(t, res.Processed)
	enhancer.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Skipped.WithLabelValues(metrics.SkipLoop)))
}

// panickingEnhancer panics in Enhance and records failures through the real enhancer.
type panickingEnhancer struct {
	*ImageEnhancer
}

func (panickingEnhancer) Enhance(context.Context, domain.ChangeNotification) Result {
	panic("decoder state corrupted")
}

func TestDispatcher_EndToEnd(t *testing.T) {
	f := newEnhancerFixture(t)
	f.outcomes.On("PutOutcome", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("PublishEnhanced", mock.Anything, mock.Anything).Return(nil)
	f.putPNG(t, "a.png")
	f.putPNG(t, "b.png")

	d := NewDispatcher(f.enhancer, "enhanced/", nil)
	res := d.Dispatch(context.Background(), []domain.ChangeNotification{
		notification(sourceBucket, "a.png"),
		notification(sourceBucket, "missing.png"),
		notification(sourceBucket, "b.png"),
		notification(sourceBucket, "enhanced/a.png"),
	})

	assert.Len(t, res.Processed, 2)

	// one outcome per notification that reached the pipeline
	written := f.outcomes.written()
	require.Len(t, written, 3)
	assert.Equal(t, domain.StatusEnhanced, written[0].Status)
	assert.Equal(t, domain.StatusNotFound, written[1].Status)
	assert.Equal(t, domain.StatusEnhanced, written[2].Status)
	f.assertTempDirEmpty(t)
}
