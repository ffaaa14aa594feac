package domain

import "time"

// OutcomeModel is the GORM model for the outcomes table.
type OutcomeModel struct {
	ImageID        string    `gorm:"type:varchar(768);primaryKey"`
	UserID         string    `gorm:"type:varchar(255)"`
	Timestamp      time.Time `gorm:"index"`
	Status         string    `gorm:"type:varchar(16);index;not null"`
	SourceBucket   string    `gorm:"type:varchar(255);not null"`
	SourceKey      string    `gorm:"type:varchar(1024);not null"`
	EnhancedBucket string    `gorm:"type:varchar(255)"`
	EnhancedKey    string    `gorm:"type:varchar(1024)"`
}

// TableName specifies the table name for OutcomeModel.
func (OutcomeModel) TableName() string {
	return "enhancement_outcomes"
}

// ToDomain converts OutcomeModel to domain Outcome.
func (m *OutcomeModel) ToDomain() *Outcome {
	return &Outcome{
		ImageID:        m.ImageID,
		UserID:         m.UserID,
		Timestamp:      m.Timestamp.UTC(),
		Status:         Status(m.Status),
		SourceBucket:   m.SourceBucket,
		SourceKey:      m.SourceKey,
		EnhancedBucket: m.EnhancedBucket,
		EnhancedKey:    m.EnhancedKey,
	}
}

// OutcomeToModel converts domain Outcome to OutcomeModel.
func OutcomeToModel(o *Outcome) *OutcomeModel {
	return &OutcomeModel{
		ImageID:        o.ImageID,
		UserID:         o.UserID,
		Timestamp:      o.Timestamp,
		Status:         string(o.Status),
		SourceBucket:   o.SourceBucket,
		SourceKey:      o.SourceKey,
		EnhancedBucket: o.EnhancedBucket,
		EnhancedKey:    o.EnhancedKey,
	}
}

// ImageMetadataModel is the GORM model for the image_metadata table.
type ImageMetadataModel struct {
	ImageID     string    `gorm:"type:varchar(36);primaryKey"`
	FileName    string    `gorm:"type:varchar(1024);not null"`
	Bucket      string    `gorm:"type:varchar(255);not null"`
	UploadTime  time.Time `gorm:"index"`
	ContentType string    `gorm:"type:varchar(255)"`
	Size        int64
}

// TableName specifies the table name for ImageMetadataModel.
func (ImageMetadataModel) TableName() string {
	return "image_metadata"
}

// ToDomain converts ImageMetadataModel to domain ImageMetadata.
func (m *ImageMetadataModel) ToDomain() *ImageMetadata {
	return &ImageMetadata{
		ImageID:     m.ImageID,
		FileName:    m.FileName,
		Bucket:      m.Bucket,
		UploadTime:  m.UploadTime.UTC(),
		ContentType: m.ContentType,
		Size:        m.Size,
	}
}

// ImageMetadataToModel converts domain ImageMetadata to ImageMetadataModel.
func ImageMetadataToModel(img *ImageMetadata) *ImageMetadataModel {
	return &ImageMetadataModel{
		ImageID:     img.ImageID,
		FileName:    img.FileName,
		Bucket:      img.Bucket,
		UploadTime:  img.UploadTime,
		ContentType: img.ContentType,
		Size:        img.Size,
	}
}
