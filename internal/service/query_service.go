package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/wes-image-enhancer/internal/cache"
	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	"github.com/weiawesome/wes-image-enhancer/internal/repository"
	"github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100

	presignExpiry = 15 * time.Minute
)

type queryServiceImpl struct {
	outcomes repository.OutcomeRepository
	images   repository.ImageRepository
	store    storage.Storage
	cache    cache.OutcomeCache
	cacheTTL time.Duration
	metrics  *metrics.Collector
	sf       singleflight.Group
}

// NewQueryService creates the read service. outcomeCache and collector may be nil.
func NewQueryService(
	outcomes repository.OutcomeRepository,
	images repository.ImageRepository,
	store storage.Storage,
	outcomeCache cache.OutcomeCache,
	cacheTTL time.Duration,
	collector *metrics.Collector,
) QueryService {
	return &queryServiceImpl{
		outcomes: outcomes,
		images:   images,
		store:    store,
		cache:    outcomeCache,
		cacheTTL: cacheTTL,
		metrics:  collector,
	}
}

// ClampLimit maps non-positive limits to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (s *queryServiceImpl) GetOutcome(ctx context.Context, imageID string) (*OutcomeView, error) {
	// Use singleflight to prevent duplicate lookups for the same key
	result, err, _ := s.sf.Do(imageID, func() (interface{}, error) {
		return s.fetchWithCache(ctx, imageID)
	})
	if err != nil {
		return nil, err
	}

	outcome, ok := result.(*domain.Outcome)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}

	view := &OutcomeView{Outcome: outcome}
	if loc, ok := outcome.Enhanced(); ok {
		url, err := s.store.GetURL(ctx, loc.Bucket, loc.Key, presignExpiry)
		if err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldImageID, imageID).Msg("failed to sign enhanced url")
		} else {
			view.EnhancedURL = url
		}
	}
	return view, nil
}

func (s *queryServiceImpl) fetchWithCache(ctx context.Context, imageID string) (*domain.Outcome, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, imageID)
		if err == nil {
			s.metrics.ObserveCache(true)
			return cached, nil
		}
		s.metrics.ObserveCache(false)

		if !errors.Is(err, cache.ErrCacheMiss) {
			// Log error but continue to fetch from the repository
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("cache get error")
		}
	}

	outcome, err := s.outcomes.GetOutcome(ctx, imageID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Store in cache (async to avoid blocking response)
		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.Set(cacheCtx, outcome, s.cacheTTL); err != nil {
				l := log.L()
				l.Warn().Err(err).Msg("cache set error")
			}
		}()
	}

	return outcome, nil
}

func (s *queryServiceImpl) ListOutcomes(ctx context.Context, limit int) ([]*domain.Outcome, error) {
	outcomes, err := s.outcomes.ListOutcomes(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	return outcomes, nil
}

func (s *queryServiceImpl) GetImage(ctx context.Context, imageID string) (*domain.ImageMetadata, error) {
	return s.images.GetImage(ctx, imageID)
}

func (s *queryServiceImpl) ListImages(ctx context.Context, limit int) ([]*domain.ImageMetadata, error) {
	images, err := s.images.ListImages(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}
