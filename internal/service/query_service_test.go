package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-image-enhancer/internal/cache"
	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	"github.com/weiawesome/wes-image-enhancer/internal/repository"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) PutOutcome(ctx context.Context, outcome *domain.Outcome) error {
	return m.Called(ctx, outcome).Error(0)
}

func (m *MockOutcomeRepository) GetOutcome(ctx context.Context, imageID string) (*domain.Outcome, error) {
	args := m.Called(ctx, imageID)
	if o := args.Get(0); o != nil {
		return o.(*domain.Outcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOutcomeRepository) ListOutcomes(ctx context.Context, limit int) ([]*domain.Outcome, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*domain.Outcome), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) PutImage(ctx context.Context, image *domain.ImageMetadata) error {
	return m.Called(ctx, image).Error(0)
}

func (m *MockImageRepository) GetImage(ctx context.Context, imageID string) (*domain.ImageMetadata, error) {
	args := m.Called(ctx, imageID)
	if img := args.Get(0); img != nil {
		return img.(*domain.ImageMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImageRepository) ListImages(ctx context.Context, limit int) ([]*domain.ImageMetadata, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*domain.ImageMetadata), args.Error(1)
}

type MockOutcomeCache struct {
	mock.Mock
}

func (m *MockOutcomeCache) Get(ctx context.Context, imageID string) (*domain.Outcome, error) {
	args := m.Called(ctx, imageID)
	if o := args.Get(0); o != nil {
		return o.(*domain.Outcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOutcomeCache) Set(ctx context.Context, outcome *domain.Outcome, ttl time.Duration) error {
	return m.Called(ctx, outcome, ttl).Error(0)
}

func (m *MockOutcomeCache) Close() error {
	return m.Called().Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Head(ctx context.Context, bucket, key string) (*storage.FileInfo, error) {
	args := m.Called(ctx, bucket, key)
	if info := args.Get(0); info != nil {
		return info.(*storage.FileInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) Read(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) Write(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	return m.Called(ctx, bucket, key, r, size, contentType).Error(0)
}

func (m *MockStorage) GetURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expires)
	return args.String(0), args.Error(1)
}

func enhancedOutcome() *domain.Outcome {
	return &domain.Outcome{
		ImageID:        "cat.png",
		Status:         domain.StatusEnhanced,
		SourceBucket:   "uploads",
		SourceKey:      "cat.png",
		EnhancedBucket: "enhanced-images",
		EnhancedKey:    "enhanced/cat.png",
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, MaxLimit, ClampLimit(1000))
}

func TestGetOutcome_CacheMissFillsCache(t *testing.T) {
	outcomes := new(MockOutcomeRepository)
	store := new(MockStorage)
	c := new(MockOutcomeCache)
	svc := NewQueryService(outcomes, new(MockImageRepository), store, c, time.Minute, nil)

	c.On("Get", mock.Anything, "cat.png").Return(nil, cache.ErrCacheMiss)
	cached := make(chan struct{})
	c.On("Set", mock.Anything, enhancedOutcome(), time.Minute).Run(func(mock.Arguments) {
		close(cached)
	}).Return(nil)
	outcomes.On("GetOutcome", mock.Anything, "cat.png").Return(enhancedOutcome(), nil)
	store.On("GetURL", mock.Anything, "enhanced-images", "enhanced/cat.png", 15*time.Minute).
		Return("https://signed.example/enhanced/cat.png", nil)

	view, err := svc.GetOutcome(context.Background(), "cat.png")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEnhanced, view.Status)
	assert.Equal(t, "https://signed.example/enhanced/cat.png", view.EnhancedURL)

	select {
	case <-cached:
	case <-time.After(time.Second):
		t.Fatal("outcome was not written to cache")
	}
}

func TestGetOutcome_CacheHit(t *testing.T) {
	outcomes := new(MockOutcomeRepository)
	store := new(MockStorage)
	c := new(MockOutcomeCache)
	svc := NewQueryService(outcomes, new(MockImageRepository), store, c, time.Minute, nil)

	c.On("Get", mock.Anything, "cat.png").Return(enhancedOutcome(), nil)
	store.On("GetURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("u", nil)

	view, err := svc.GetOutcome(context.Background(), "cat.png")
	require.NoError(t, err)
	assert.Equal(t, "u", view.EnhancedURL)
	outcomes.AssertNotCalled(t, "GetOutcome", mock.Anything, mock.Anything)
}

func TestGetOutcome_CacheErrorFallsBack(t *testing.T) {
	outcomes := new(MockOutcomeRepository)
	c := new(MockOutcomeCache)
	svc := NewQueryService(outcomes, new(MockImageRepository), new(MockStorage), c, time.Minute, nil)

	failed := &domain.Outcome{ImageID: "bad.jpg", Status: domain.StatusFailed}
	c.On("Get", mock.Anything, "bad.jpg").Return(nil, errors.New("connection refused"))
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	outcomes.On("GetOutcome", mock.Anything, "bad.jpg").Return(failed, nil)

	view, err := svc.GetOutcome(context.Background(), "bad.jpg")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, view.Status)
	assert.Empty(t, view.EnhancedURL)
}

func TestGetOutcome_NotFoundWithoutCache(t *testing.T) {
	outcomes := new(MockOutcomeRepository)
	svc := NewQueryService(outcomes, new(MockImageRepository), new(MockStorage), nil, 0, nil)
	outcomes.On("GetOutcome", mock.Anything, "missing").Return(nil, repository.ErrOutcomeNotFound)

	_, err := svc.GetOutcome(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrOutcomeNotFound)
}

func TestGetOutcome_SigningErrorOmitsURL(t *testing.T) {
	outcomes := new(MockOutcomeRepository)
	store := new(MockStorage)
	svc := NewQueryService(outcomes, new(MockImageRepository), store, nil, 0, nil)

	outcomes.On("GetOutcome", mock.Anything, "cat.png").Return(enhancedOutcome(), nil)
	store.On("GetURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("no credentials"))

	view, err := svc.GetOutcome(context.Background(), "cat.png")
	require.NoError(t, err)
	assert.Empty(t, view.EnhancedURL)
}

func TestListOutcomes_ClampsLimit(t *testing.T) {
	outcomes := new(MockOutcomeRepository)
	svc := NewQueryService(outcomes, new(MockImageRepository), new(MockStorage), nil, 0, nil)
	outcomes.On("ListOutcomes", mock.Anything, MaxLimit).Return([]*domain.Outcome{enhancedOutcome()}, nil)

	list, err := svc.ListOutcomes(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestImages(t *testing.T) {
	images := new(MockImageRepository)
	svc := NewQueryService(new(MockOutcomeRepository), images, new(MockStorage), nil, 0, nil)

	img := &domain.ImageMetadata{ImageID: "id-1", FileName: "cat.png"}
	images.On("GetImage", mock.Anything, "id-1").Return(img, nil)
	images.On("ListImages", mock.Anything, DefaultLimit).Return([]*domain.ImageMetadata{img}, nil)

	got, err := svc.GetImage(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, img, got)

	list, err := svc.ListImages(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
