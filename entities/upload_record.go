package entities

import (
	"time"

	"autopost/constant"
)

// UploadRecord is the persistent outcome of one successful publish. Filename
// is the upsert key: re-uploading the same asset updates the row in place.
type UploadRecord struct {
	Filename   string           `gorm:"primaryKey" json:"filename"`
	VideoID    string           `json:"video_id"`
	Platform   string           `json:"platform"`
	Title      string           `json:"title"`
	Privacy    constant.Privacy `json:"privacy"`
	Tags       []string         `gorm:"serializer:json" json:"tags"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}
