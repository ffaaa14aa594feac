package mq

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/weiawesome/wes-image-enhancer/internal/domain"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

// notificationRaw is the S3/MinIO bucket notification structure.
type notificationRaw struct {
	Records []struct {
		EventName    string `json:"eventName"`
		UserIdentity struct {
			PrincipalID string `json:"principalId"`
		} `json:"userIdentity"`
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// Filter selects which records of a notification are dispatched. Empty
// fields match everything.
type Filter struct {
	Bucket     string
	EventNames []string
}

func (f Filter) allowEvent(name string) bool {
	if len(f.EventNames) == 0 {
		return true
	}
	for _, n := range f.EventNames {
		if name == n {
			return true
		}
	}
	return false
}

// DecodeNotifications parses a bucket notification message into change
// notifications, URL-decoding object keys. Records that fail the filter or
// whose key cannot be decoded are dropped; records with a missing bucket or
// key are kept so the dispatcher can skip them. Only a message that is not
// valid JSON is an error.
func DecodeNotifications(value []byte, filter Filter) ([]domain.ChangeNotification, error) {
	var raw notificationRaw
	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	batch := make([]domain.ChangeNotification, 0, len(raw.Records))
	for _, rec := range raw.Records {
		if !filter.allowEvent(rec.EventName) {
			continue
		}
		bucket := rec.S3.Bucket.Name
		if filter.Bucket != "" && bucket != filter.Bucket {
			continue
		}

		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			l := pkglog.L()
			l.Warn().Err(err).
				Str(pkglog.FieldBucket, bucket).
				Str(pkglog.FieldKey, rec.S3.Object.Key).
				Msg("skipping record with undecodable key")
			continue
		}

		batch = append(batch, domain.ChangeNotification{
			SourceBucket: bucket,
			SourceKey:    key,
			PrincipalID:  rec.UserIdentity.PrincipalID,
		})
	}

	return batch, nil
}
