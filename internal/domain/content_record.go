package domain

import (
	"time"

	"gorm.io/datatypes"
)

// GeneratedContentRecord is the single persisted row holding the whole content
// map as a JSON object, keyed by storage key.
type GeneratedContentRecord struct {
	StorageKey string         `gorm:"column:storage_key;primaryKey" json:"storage_key"`
	Content    datatypes.JSON `gorm:"column:content;not null" json:"content"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (GeneratedContentRecord) TableName() string { return "generated_content_records" }
