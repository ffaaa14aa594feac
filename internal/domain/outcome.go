package domain

import "time"

// Status is the terminal state of one processed notification.
type Status string

const (
	StatusEnhanced Status = "ENHANCED"
	StatusNotFound Status = "NOT_FOUND"
	StatusFailed   Status = "FAILED"
)

// Outcome is the persisted record written once per processed notification.
// ImageID is the literal source key, so reprocessing overwrites.
type Outcome struct {
	ImageID        string    `json:"image_id" dynamodbav:"ImageId"`
	UserID         string    `json:"user_id" dynamodbav:"UserId"`
	Timestamp      time.Time `json:"timestamp" dynamodbav:"Timestamp"`
	Status         Status    `json:"status" dynamodbav:"Status"`
	SourceBucket   string    `json:"source_bucket" dynamodbav:"SourceBucket"`
	SourceKey      string    `json:"source_key" dynamodbav:"SourceKey"`
	EnhancedBucket string    `json:"enhanced_bucket,omitempty" dynamodbav:"EnhancedBucket"`
	EnhancedKey    string    `json:"enhanced_key,omitempty" dynamodbav:"EnhancedKey"`
}

// Source returns the location of the original object.
func (o *Outcome) Source() Location {
	return Location{Bucket: o.SourceBucket, Key: o.SourceKey}
}

// Enhanced returns the derived object's location and whether one exists.
func (o *Outcome) Enhanced() (Location, bool) {
	if o.Status != StatusEnhanced || o.EnhancedKey == "" {
		return Location{}, false
	}
	return Location{Bucket: o.EnhancedBucket, Key: o.EnhancedKey}, true
}
