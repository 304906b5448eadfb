package models

import (
	"time"

	"gorm.io/gorm"
)

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// Folder groups media records per owner. Folder lists are the low-churn
// collections served through the merge-on-write cache.
type Folder struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"not null;index;size:36"`
	Name   string `json:"name" gorm:"not null;size:100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Folder) TableName() string {
	return "folders"
}

// Media is a reference to an object held by the external binary storage
// provider. FolderID is empty for media at the library root.
type Media struct {
	ID       string    `json:"id" gorm:"primaryKey;size:36"`
	UserID   string    `json:"user_id" gorm:"not null;index;size:36"`
	FolderID *string   `json:"folder_id" gorm:"index;size:36"`
	Name     string    `json:"name" gorm:"not null;size:255"`
	Type     MediaType `json:"type" gorm:"not null;size:20"`
	PublicID string    `json:"public_id" gorm:"not null;size:255"`
	URL      string    `json:"url" gorm:"not null;size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Media) TableName() string {
	return "media"
}
