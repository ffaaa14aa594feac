package domain

import "time"

// ImageMetadata describes an uploaded object, written by the metadata indexer.
type ImageMetadata struct {
	ImageID     string    `json:"image_id" dynamodbav:"ImageId"`
	FileName    string    `json:"file_name" dynamodbav:"FileName"`
	Bucket      string    `json:"bucket" dynamodbav:"Bucket"`
	UploadTime  time.Time `json:"upload_time" dynamodbav:"UploadTime"`
	ContentType string    `json:"content_type" dynamodbav:"ContentType"`
	Size        int64     `json:"size" dynamodbav:"Size"`
}
