package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	FirstName    string    `gorm:"type:varchar(255);not null"`
	LastName     string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Phone        *string   `gorm:"type:varchar(50)"`
	AvatarURL    *string   `gorm:"type:text"`
	Role         string    `gorm:"type:varchar(50);not null;default:'user'"`
	Status       string    `gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// Deletion lifecycle. DeletedAt doubles as the soft-delete marker, so
	// default reads exclude deleted accounts and lifecycle code goes through
	// Unscoped explicitly.
	DeletedAt          gorm.DeletedAt `gorm:"index"`
	DeletionReason     *string        `gorm:"type:text"`
	AnonymizationLevel string         `gorm:"type:varchar(20);not null;default:'';index"`
	AnonymizedAt       *time.Time
	AnonymousId        *string `gorm:"type:varchar(64);index"`
}

func (User) TableName() string {
	return "users"
}
