package models

import (
	"time"

	"gorm.io/gorm"
)

// ImageKind selects the crop applied to an upload.
type ImageKind string

const (
	ImageKindCover  ImageKind = "cover"
	ImageKindAvatar ImageKind = "avatar"
)

// Image is an uploaded cover or avatar; files live under UPLOAD_DIR/{Hash}.
type Image struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Hash             string    `gorm:"size:64;uniqueIndex;not null" json:"hash"`
	UserID           string    `gorm:"size:36;not null;index" json:"userId"`
	Kind             ImageKind `gorm:"type:varchar(16);not null" json:"kind"`
	OriginalFilename string    `json:"originalFilename"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	SizeBytes        int64     `json:"sizeBytes"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (i *Image) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
