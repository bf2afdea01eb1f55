package events

import (
	"context"
	"time"

	"rentadmin-be/internal/pkg/logger"
	pkgEvents "rentadmin-be/pkg/events"
	pktNats "rentadmin-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for admin operations
type Publisher interface {
	PublishUserAnonymized(ctx context.Context, userId uuid.UUID, anonymousId, level, reason string)
	PublishUserRestored(ctx context.Context, userId uuid.UUID)
	PublishUserStatusChanged(ctx context.Context, userId uuid.UUID, oldStatus, newStatus string)
	PublishPurgeCompleted(ctx context.Context, purged int, activeUsers, deletedUsers int64)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishUserAnonymized emits USER_ANONYMIZED so downstream consumers (search
// index, CRM) drop their copies of the user's PII.
func (p *NatsPublisher) PublishUserAnonymized(ctx context.Context, userId uuid.UUID, anonymousId, level, reason string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "USER_ANONYMIZED",
		Data: map[string]interface{}{
			"user_id":      userId.String(),
			"anonymous_id": anonymousId,
			"level":        level,
			"reason":       reason,
			"entity_type":  "user",
			"entity_id":    userId.String(),
			"occurred_at":  now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_ANONYMIZED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishUserRestored emits USER_RESTORED after a deletion marker is cleared.
func (p *NatsPublisher) PublishUserRestored(ctx context.Context, userId uuid.UUID) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "USER_RESTORED",
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"entity_type": "user",
			"entity_id":   userId.String(),
			"occurred_at": now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_RESTORED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishUserStatusChanged emits USER_LOCKED / USER_UNLOCKED transitions.
func (p *NatsPublisher) PublishUserStatusChanged(ctx context.Context, userId uuid.UUID, oldStatus, newStatus string) {
	if p.publisher == nil {
		return
	}

	eventType := "USER_STATUS_CHANGED"
	switch newStatus {
	case "locked":
		eventType = "USER_LOCKED"
	case "active":
		if oldStatus == "locked" {
			eventType = "USER_UNLOCKED"
		}
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
			"entity_type": "user",
			"entity_id":   userId.String(),
			"occurred_at": now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish user status event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishPurgeCompleted emits RETENTION_PURGE_COMPLETED after a purge run.
func (p *NatsPublisher) PublishPurgeCompleted(ctx context.Context, purged int, activeUsers, deletedUsers int64) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "RETENTION_PURGE_COMPLETED",
		Data: map[string]interface{}{
			"purges_executed": purged,
			"active_users":    activeUsers,
			"deleted_users":   deletedUsers,
			"occurred_at":     now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish RETENTION_PURGE_COMPLETED event", map[string]interface{}{"error": err.Error()})
	}
}
