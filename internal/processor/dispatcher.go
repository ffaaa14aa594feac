package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// Dispatcher runs a batch of notifications through an Enhancer, one at a
// time, and collects the successful items.
type Dispatcher struct {
	enhancer       Enhancer
	enhancedPrefix string
	metrics        *metrics.Collector
}

// NewDispatcher creates a Dispatcher. Keys under enhancedPrefix are treated as
// derived objects and skipped; an empty prefix therefore skips every key.
// collector may be nil.
func NewDispatcher(enhancer Enhancer, enhancedPrefix string, collector *metrics.Collector) *Dispatcher {
	return &Dispatcher{
		enhancer:       enhancer,
		enhancedPrefix: enhancedPrefix,
		metrics:        collector,
	}
}

// Dispatch processes every notification in order. Per-item failures are
// recorded as outcomes and never abort the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []domain.ChangeNotification) *domain.BatchResult {
	l := pkglog.Ctx(ctx)
	result := domain.NewBatchResult()

	for _, n := range batch {
		if n.SourceBucket == "" || n.SourceKey == "" {
			l.Debug().
				Str(pkglog.FieldBucket, n.SourceBucket).
				Str(pkglog.FieldKey, n.SourceKey).
				Msg("skipping malformed record")
			d.metrics.ObserveSkip(metrics.SkipMalformed)
			continue
		}
		if strings.HasPrefix(n.SourceKey, d.enhancedPrefix) {
			l.Debug().Str(pkglog.FieldKey, n.SourceKey).Msg("skipping already enhanced object")
			d.metrics.ObserveSkip(metrics.SkipLoop)
			continue
		}

		start := time.Now()
		res := d.enhanceItem(ctx, n)
		d.metrics.ObserveOutcome(string(res.Status), time.Since(start))

		switch res.Status {
		case domain.StatusEnhanced:
			result.Add(res.Source, res.Enhanced)
		case domain.StatusNotFound:
			// recorded, not reported
		default:
			l.Warn().Err(res.Err).
				Str(pkglog.FieldKey, n.SourceKey).
				Str(pkglog.FieldOutcome, string(res.Status)).
				Msg("item not enhanced")
		}
	}

	l.Info().
		Int(pkglog.FieldBatchSize, len(batch)).
		Int(pkglog.FieldProcessedCount, len(result.Processed)).
		Msg("batch processed")

	return result
}

// enhanceItem keeps a panicking item from taking down the batch. The item
// still gets its FAILED outcome.
func (d *Dispatcher) enhanceItem(ctx context.Context, n domain.ChangeNotification) (res Result) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		l := pkglog.Ctx(ctx)
		l.Error().Interface("panic", r).Str(pkglog.FieldKey, n.SourceKey).Msg("enhancer panicked")

		res = Result{
			Status: domain.StatusFailed,
			Source: domain.Location{Bucket: n.SourceBucket, Key: n.SourceKey},
			Err:    fmt.Errorf("enhancer panic: %v", r),
		}
		if err := d.enhancer.RecordFailure(ctx, n); err != nil {
			l.Error().Err(err).Str(pkglog.FieldKey, n.SourceKey).Msg("failed to record failed outcome")
			res.Err = errors.Join(res.Err, err)
		}
	}()
	return d.enhancer.Enhance(ctx, n)
}
