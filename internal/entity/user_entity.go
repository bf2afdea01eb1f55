package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

// AnonymizationLevel is the graduated degree of PII destruction applied to an
// account. It only ever advances (none -> PARTIAL/FULL -> PURGED); the sole
// exception is an explicit restore, which resets it to none.
type AnonymizationLevel string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusLocked  UserStatus = "locked"

	LevelNone    AnonymizationLevel = ""
	LevelPartial AnonymizationLevel = "PARTIAL"
	LevelFull    AnonymizationLevel = "FULL"
	LevelPurged  AnonymizationLevel = "PURGED"
)

// Rank orders levels for the monotonicity check.
func (l AnonymizationLevel) Rank() int {
	switch l {
	case LevelPartial:
		return 1
	case LevelFull:
		return 2
	case LevelPurged:
		return 3
	default:
		return 0
	}
}

func ParseLevel(s string) (AnonymizationLevel, error) {
	switch AnonymizationLevel(s) {
	case LevelPartial, LevelFull:
		return AnonymizationLevel(s), nil
	default:
		return LevelNone, fmt.Errorf("invalid anonymization level: %q", s)
	}
}

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FirstName    string
	LastName     string
	FullName     string
	Phone        *string
	AvatarURL    *string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Deletion lifecycle
	DeletedAt          *time.Time
	DeletionReason     *string
	AnonymizationLevel AnonymizationLevel
	AnonymizedAt       *time.Time
	AnonymousId        *string
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsPurged() bool {
	return u.AnonymizationLevel == LevelPurged
}
