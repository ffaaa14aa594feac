package domain

import "github.com/aws/aws-lambda-go/events"

// ObjectKey returns the URL-decoded key of an S3 event object, falling back
// to the raw key when no decoded form is present.
func ObjectKey(obj events.S3Object) string {
	if obj.URLDecodedKey != "" {
		return obj.URLDecodedKey
	}
	return obj.Key
}

// NotificationsFromS3Event converts every record of an S3 event into a
// ChangeNotification, preserving order. Records with a missing bucket or key
// are kept; the dispatcher skips them.
func NotificationsFromS3Event(event events.S3Event) []ChangeNotification {
	batch := make([]ChangeNotification, 0, len(event.Records))
	for _, rec := range event.Records {
		batch = append(batch, ChangeNotification{
			SourceBucket: rec.S3.Bucket.Name,
			SourceKey:    ObjectKey(rec.S3.Object),
			PrincipalID:  rec.PrincipalID.PrincipalID,
		})
	}
	return batch
}
