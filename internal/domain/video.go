package domain

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	OwnerID     uuid.UUID `json:"ownerId" gorm:"type:uuid;index;not null"`
	VideoFile   string    `json:"videoFile" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
