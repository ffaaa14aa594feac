package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	"github.com/weiawesome/wes-image-enhancer/internal/repository"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

const snsNotificationType = "Notification"

// Indexer writes an ImageMetadata record for every object named in an S3
// notification message.
type Indexer struct {
	store   storage.Storage
	images  repository.ImageRepository
	metrics *metrics.Collector
	now     func() time.Time
	newID   func() string
}

// New creates an Indexer. collector may be nil.
func New(store storage.Storage, images repository.ImageRepository, collector *metrics.Collector) *Indexer {
	return &Indexer{
		store:   store,
		images:  images,
		metrics: collector,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// IndexMessage handles one queue message. The body is an S3 event, either
// directly or wrapped in an SNS notification. Messages without records, such
// as s3:TestEvent, are ignored. Objects that no longer exist are skipped;
// other per-record errors are joined and returned.
func (ix *Indexer) IndexMessage(ctx context.Context, body string) error {
	event, err := decodeS3Event(body)
	if err != nil {
		return err
	}

	l := pkglog.Ctx(ctx)
	var errs []error
	for _, rec := range event.Records {
		bucket, key := rec.S3.Bucket.Name, domain.ObjectKey(rec.S3.Object)
		if bucket == "" || key == "" {
			l.Debug().Msg("skipping record without bucket or key")
			continue
		}

		if err := ix.indexObject(ctx, bucket, key); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				l.Warn().Str(pkglog.FieldBucket, bucket).Str(pkglog.FieldKey, key).Msg("object gone before indexing")
				continue
			}
			ix.metrics.ObserveIndexed(false)
			errs = append(errs, fmt.Errorf("index s3://%s/%s: %w", bucket, key, err))
			continue
		}
		ix.metrics.ObserveIndexed(true)
	}

	return errors.Join(errs...)
}

func (ix *Indexer) indexObject(ctx context.Context, bucket, key string) error {
	info, err := ix.store.Head(ctx, bucket, key)
	if err != nil {
		return err
	}

	image := &domain.ImageMetadata{
		ImageID:     ix.newID(),
		FileName:    key,
		Bucket:      bucket,
		UploadTime:  ix.now().UTC(),
		ContentType: info.ContentType,
		Size:        info.Size,
	}
	if err := ix.images.PutImage(ctx, image); err != nil {
		return err
	}

	l := pkglog.Ctx(ctx)
	l.Info().
		Str(pkglog.FieldImageID, image.ImageID).
		Str(pkglog.FieldBucket, bucket).
		Str(pkglog.FieldKey, key).
		Msg("image metadata stored")
	return nil
}

func decodeS3Event(body string) (events.S3Event, error) {
	var envelope events.SNSEntity
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Type == snsNotificationType {
		body = envelope.Message
	}

	var event events.S3Event
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return events.S3Event{}, fmt.Errorf("failed to unmarshal s3 event: %w", err)
	}
	return event, nil
}
