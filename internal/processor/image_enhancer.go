package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

// ErrMissingTargetBucket is returned when no destination bucket is configured.
var ErrMissingTargetBucket = errors.New("target bucket is required")

const (
	enhancedContentType = "image/jpeg"
	defaultExt          = ".jpg"
)

// ImageEnhancer implements Enhancer: it fetches the source object, enhances
// it, stores the result under the enhanced prefix and records the outcome.
type ImageEnhancer struct {
	store          storage.Storage
	outcomes       OutcomeWriter
	notifier       Notifier
	targetBucket   string
	enhancedPrefix string
	tempDir        string
	now            func() time.Time
}

// NewImageEnhancer constructs an ImageEnhancer from the enhancer config.
func NewImageEnhancer(
	store storage.Storage,
	outcomes OutcomeWriter,
	notifier Notifier,
	cfg config.EnhancerConfig,
) (*ImageEnhancer, error) {
	if cfg.TargetBucket == "" {
		return nil, ErrMissingTargetBucket
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &ImageEnhancer{
		store:          store,
		outcomes:       outcomes,
		notifier:       notifier,
		targetBucket:   cfg.TargetBucket,
		enhancedPrefix: cfg.EnhancedPrefix,
		tempDir:        cfg.TempDir,
		now:            time.Now,
	}, nil
}

// Enhance runs the pipeline for one notification and writes exactly one
// outcome record.
func (p *ImageEnhancer) Enhance(ctx context.Context, n domain.ChangeNotification) Result {
	source := domain.Location{Bucket: n.SourceBucket, Key: n.SourceKey}
	l := pkglog.Ctx(ctx).With().
		Str(pkglog.FieldBucket, source.Bucket).
		Str(pkglog.FieldKey, source.Key).
		Logger()

	// 1. Existence check.
	if _, err := p.store.Head(ctx, source.Bucket, source.Key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn().Msg("source object not found")
			res := Result{Status: domain.StatusNotFound, Source: source}
			if werr := p.record(ctx, n, domain.StatusNotFound, domain.Location{}); werr != nil {
				l.Error().Err(werr).Msg("failed to record not-found outcome")
				res.Err = werr
			}
			return res
		}
		return p.fail(ctx, l, n, fmt.Errorf("head source: %w", err))
	}

	// 2-4. Fetch, transform, publish.
	enhanced, err := p.process(ctx, n)
	if err != nil {
		return p.fail(ctx, l, n, err)
	}

	l.Info().
		Str(pkglog.FieldTargetBucket, enhanced.Bucket).
		Str(pkglog.FieldTargetKey, enhanced.Key).
		Msg("image enhanced")

	return Result{Status: domain.StatusEnhanced, Source: source, Enhanced: enhanced}
}

// process owns both temp files; they are removed on every return path.
func (p *ImageEnhancer) process(ctx context.Context, n domain.ChangeNotification) (domain.Location, error) {
	source := domain.Location{Bucket: n.SourceBucket, Key: n.SourceKey}

	ext := path.Ext(source.Key)
	if ext == "" {
		ext = defaultExt
	}

	orig, err := os.CreateTemp(p.tempDir, "orig_*"+ext)
	if err != nil {
		return domain.Location{}, fmt.Errorf("create temp file: %w", err)
	}
	defer removeTemp(orig)

	if err := p.download(ctx, source, orig); err != nil {
		return domain.Location{}, err
	}

	enh, err := os.CreateTemp(p.tempDir, "enh_*"+defaultExt)
	if err != nil {
		return domain.Location{}, fmt.Errorf("create temp file: %w", err)
	}
	defer removeTemp(enh)

	if err := EnhanceFile(orig.Name(), enh); err != nil {
		return domain.Location{}, err
	}
	if err := enh.Close(); err != nil {
		return domain.Location{}, fmt.Errorf("close enhanced file: %w", err)
	}

	enhanced := domain.Location{Bucket: p.targetBucket, Key: p.enhancedPrefix + source.Key}
	if err := p.upload(ctx, enh.Name(), enhanced); err != nil {
		return domain.Location{}, err
	}

	if err := p.record(ctx, n, domain.StatusEnhanced, enhanced); err != nil {
		return domain.Location{}, fmt.Errorf("record outcome: %w", err)
	}

	if err := p.notifier.PublishEnhanced(ctx, domain.NewEnhancedEvent(source, enhanced)); err != nil {
		return domain.Location{}, fmt.Errorf("publish event: %w", err)
	}

	return enhanced, nil
}

func (p *ImageEnhancer) download(ctx context.Context, source domain.Location, dst *os.File) error {
	rc, err := p.store.Read(ctx, source.Bucket, source.Key)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	defer rc.Close()

	if _, err := io.Copy(dst, rc); err != nil {
		return fmt.Errorf("download source: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close source file: %w", err)
	}
	return nil
}

func (p *ImageEnhancer) upload(ctx context.Context, filePath string, dst domain.Location) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open enhanced file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat enhanced file: %w", err)
	}

	if err := p.store.Write(ctx, dst.Bucket, dst.Key, f, info.Size(), enhancedContentType); err != nil {
		return fmt.Errorf("upload enhanced: %w", err)
	}
	return nil
}

// fail records a FAILED outcome for an error after the existence check.
func (p *ImageEnhancer) fail(ctx context.Context, l zerolog.Logger, n domain.ChangeNotification, cause error) Result {
	l.Error().Err(cause).Msg("image enhancement failed")

	res := Result{
		Status: domain.StatusFailed,
		Source: domain.Location{Bucket: n.SourceBucket, Key: n.SourceKey},
		Err:    cause,
	}
	if err := p.RecordFailure(ctx, n); err != nil {
		l.Error().Err(err).Msg("failed to record failed outcome")
		res.Err = errors.Join(cause, err)
	}
	return res
}

// RecordFailure writes a FAILED outcome for n.
func (p *ImageEnhancer) RecordFailure(ctx context.Context, n domain.ChangeNotification) error {
	return p.record(ctx, n, domain.StatusFailed, domain.Location{})
}

func (p *ImageEnhancer) record(ctx context.Context, n domain.ChangeNotification, status domain.Status, enhanced domain.Location) error {
	return p.outcomes.PutOutcome(ctx, &domain.Outcome{
		ImageID:        n.SourceKey,
		UserID:         n.Principal(),
		Timestamp:      p.now().UTC(),
		Status:         status,
		SourceBucket:   n.SourceBucket,
		SourceKey:      n.SourceKey,
		EnhancedBucket: enhanced.Bucket,
		EnhancedKey:    enhanced.Key,
	})
}

func removeTemp(f *os.File) {
	_ = f.Close()
	_ = os.Remove(f.Name())
}

type nopNotifier struct{}

func (nopNotifier) PublishEnhanced(context.Context, *domain.EnhancedEvent) error { return nil }
