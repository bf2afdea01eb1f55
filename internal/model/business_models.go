package model

import (
	"time"

	"github.com/google/uuid"
)

// Business record collections all reference users via UserId and carry the two
// shadow fields filled in during anonymization: AnonymousUserId re-links the
// row to the pseudonymous identity once PII is gone, UserAnonymizedAt marks
// when that happened.

type Booking struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyId       uuid.UUID `gorm:"type:uuid;not null;index"`
	CheckIn          time.Time `gorm:"not null"`
	CheckOut         time.Time `gorm:"not null"`
	GuestCount       int       `gorm:"default:1"`
	TotalAmount      float64   `gorm:"type:numeric(12,2);not null"`
	Status           string    `gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (Booking) TableName() string { return "bookings" }

type ServiceRequest struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceType      string    `gorm:"type:varchar(100);not null"`
	Description      string    `gorm:"type:text"`
	Status           string    `gorm:"type:varchar(50);not null;default:'open'"`
	ScheduledFor     *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (ServiceRequest) TableName() string { return "service_requests" }

type Review struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating           int       `gorm:"not null"`
	Comment          string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (Review) TableName() string { return "reviews" }

// Payment rows are under legal retention and are never hard-deleted by the
// lifecycle, only re-tagged.
type Payment struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	BookingId        *uuid.UUID `gorm:"type:uuid;index"`
	Amount           float64   `gorm:"type:numeric(12,2);not null"`
	Currency         string    `gorm:"type:varchar(3);not null;default:'EUR'"`
	Status           string    `gorm:"type:varchar(50);not null;default:'pending'"`
	ProviderRef      *string   `gorm:"type:varchar(255)"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (Payment) TableName() string { return "payments" }

// Subscription rows are financial records too (see Payment).
type Subscription struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanName         string    `gorm:"type:varchar(100);not null"`
	Price            float64   `gorm:"type:numeric(12,2);not null"`
	Status           string    `gorm:"type:varchar(50);not null;default:'active'"`
	StartedAt        time.Time `gorm:"not null"`
	ExpiresAt        *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (Subscription) TableName() string { return "subscriptions" }

type Property struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"` // owner
	Title            string    `gorm:"type:varchar(255);not null"`
	Address          string    `gorm:"type:text"`
	City             string    `gorm:"type:varchar(100);index"`
	PricePerNight    float64   `gorm:"type:numeric(12,2)"`
	ApprovalStatus   string    `gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (Property) TableName() string { return "properties" }

type Notification struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	Title            string    `gorm:"type:varchar(255);not null"`
	Body             string    `gorm:"type:text"`
	ReadAt           *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	AnonymousUserId  *string   `gorm:"type:varchar(64);index"`
	UserAnonymizedAt *time.Time
}

func (Notification) TableName() string { return "notifications" }
