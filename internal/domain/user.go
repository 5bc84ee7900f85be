package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username string    `json:"username" gorm:"uniqueIndex;not null"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName string    `json:"fullName" gorm:"not null"`
	// Never serialized; only the auth service reads or writes these.
	PasswordHash string `json:"-" gorm:"not null"`
	RefreshToken string `json:"-"`

	Avatar     string `json:"avatar" gorm:"not null"`
	CoverImage string `json:"coverImage"`

	// Video ids, most recent first. Duplicates allowed.
	WatchHistory datatypes.JSONSlice[string] `json:"watchHistory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
