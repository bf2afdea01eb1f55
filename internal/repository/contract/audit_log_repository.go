package contract

import (
	"context"
	"time"

	"rentadmin-be/internal/entity"

	"github.com/google/uuid"
)

// AuditLogRepository is append-only: there is deliberately no update or delete.
type AuditLogRepository interface {
	Insert(ctx context.Context, log *entity.AuditLog) error
	InsertBatch(ctx context.Context, logs []*entity.AuditLog) error

	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AuditLog, error)
	FindByActionType(ctx context.Context, actionType string, limit int) ([]*entity.AuditLog, error)
	FindByActorType(ctx context.Context, actorType entity.ActorType, limit int) ([]*entity.AuditLog, error)

	// CountByActionSince aggregates entry counts per action type created at or
	// after the cutoff.
	CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error)
}
