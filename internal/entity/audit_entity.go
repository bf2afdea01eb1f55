package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorAdmin  ActorType = "admin"
	ActorSystem ActorType = "system"
)

// Action types recorded by this back-office.
const (
	ActionUserAnonymized    = "USER_ANONYMIZED"
	ActionUserRestored      = "USER_RESTORED"
	ActionUserLocked        = "USER_LOCKED"
	ActionUserUnlocked      = "USER_UNLOCKED"
	ActionUserRoleChanged   = "USER_ROLE_CHANGED"
	ActionRetentionPurge    = "RETENTION_PURGE"
	ActionAdminLogin        = "ADMIN_LOGIN"
	ActionBulkAnonymization = "BULK_ANONYMIZATION"
)

// AuditLog is an append-only record of an administrative or system action.
// Rows are never mutated or deleted by this service.
type AuditLog struct {
	Id          uuid.UUID
	ActionType  string
	UserId      *uuid.UUID // subject, nil for batch/system-wide actions
	Description string
	ActorType   ActorType
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
