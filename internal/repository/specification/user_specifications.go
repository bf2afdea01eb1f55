package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// Deleted matches soft-deleted accounts. Only meaningful on Unscoped queries,
// the default scope filters them out before this runs.
type Deleted struct{}

func (s Deleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NOT NULL")
}

// DeletedBefore matches accounts soft-deleted at or before the cutoff; used by
// the retention purge predicate.
type DeletedBefore struct {
	Cutoff time.Time
}

func (s DeletedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NOT NULL AND deleted_at <= ?", s.Cutoff)
}

// Anonymized matches accounts that went through the anonymization engine and
// are not yet purged.
type Anonymized struct{}

func (s Anonymized) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("anonymization_level IN ?", []string{"PARTIAL", "FULL"})
}
