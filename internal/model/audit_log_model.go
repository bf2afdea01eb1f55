package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActionType  string         `gorm:"type:varchar(100);not null;index"`
	UserId      *uuid.UUID     `gorm:"type:uuid;index"`
	Description string         `gorm:"type:text;not null"`
	ActorType   string         `gorm:"type:varchar(20);not null;default:'system';index"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"default:now();not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
