package domain

import "fmt"

// AnonymousPrincipal is recorded as the user when a notification carries no
// principal.
const AnonymousPrincipal = "anonymous"

// ChangeNotification is one "object created" record from an object-store
// event batch.
type ChangeNotification struct {
	SourceBucket string
	SourceKey    string
	PrincipalID  string
}

// Principal returns the uploading principal, defaulting to anonymous.
func (n ChangeNotification) Principal() string {
	if n.PrincipalID == "" {
		return AnonymousPrincipal
	}
	return n.PrincipalID
}

// Location identifies an object by bucket and key.
type Location struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// URI renders the location as s3://bucket/key.
func (l Location) URI() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}
