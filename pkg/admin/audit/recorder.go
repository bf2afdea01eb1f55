package audit

import (
	"context"
	"encoding/json"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	// Topic carrying audit entries to the background writer.
	entriesTopic = "audit.entries"

	aggregateCacheKey = "audit:aggregate:24h"
	aggregateCacheTTL = time.Minute
)

// PubSub is what the recorder needs from the in-process bus; satisfied by
// watermill's gochannel.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

// Recorder writes the audit trail. Writes are non-blocking with respect to
// the caller's primary action: with a bus configured they are queued and
// drained by StartWorker, and any storage failure degrades to a local warn
// log. An unavailable audit store never blocks an administrative operation.
type Recorder struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	pubsub     PubSub
	cache      *gocache.Cache
}

// NewRecorder creates a recorder. pubsub may be nil, in which case writes are
// synchronous best-effort inserts (used by CLI entrypoints and tests).
func NewRecorder(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger, pubsub PubSub) *Recorder {
	return &Recorder{
		uowFactory: uowFactory,
		logger:     logger,
		pubsub:     pubsub,
		cache:      gocache.New(aggregateCacheTTL, 5*time.Minute),
	}
}

// Record appends one entry to the audit trail. Returns the entry with its
// generated id, or nil when the entry was dropped (invalid or undeliverable).
func (r *Recorder) Record(ctx context.Context, entry *entity.AuditLog) *entity.AuditLog {
	if entry == nil || entry.ActionType == "" {
		return nil
	}
	r.prepare(entry)

	if r.pubsub != nil {
		if err := r.publish(entry); err != nil {
			r.logger.Warn("AUDIT", "Failed to queue audit entry", map[string]interface{}{
				"actionType": entry.ActionType,
				"error":      err.Error(),
			})
			return nil
		}
		return entry
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditLogRepository().Insert(ctx, entry); err != nil {
		r.logger.Warn("AUDIT", "Failed to write audit entry", map[string]interface{}{
			"actionType": entry.ActionType,
			"error":      err.Error(),
		})
		return nil
	}
	return entry
}

// RecordBulk batches several entries in one write. Entries that fail to
// deliver are dropped with a warning, mirroring Record.
func (r *Recorder) RecordBulk(ctx context.Context, entries []*entity.AuditLog) []*entity.AuditLog {
	var accepted []*entity.AuditLog
	for _, entry := range entries {
		if entry == nil || entry.ActionType == "" {
			continue
		}
		r.prepare(entry)
		accepted = append(accepted, entry)
	}
	if len(accepted) == 0 {
		return nil
	}

	if r.pubsub != nil {
		for _, entry := range accepted {
			if err := r.publish(entry); err != nil {
				r.logger.Warn("AUDIT", "Failed to queue audit entry", map[string]interface{}{
					"actionType": entry.ActionType,
					"error":      err.Error(),
				})
			}
		}
		return accepted
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditLogRepository().InsertBatch(ctx, accepted); err != nil {
		r.logger.Warn("AUDIT", "Failed to write audit batch", map[string]interface{}{
			"count": len(accepted),
			"error": err.Error(),
		})
		return nil
	}
	return accepted
}

func (r *Recorder) prepare(entry *entity.AuditLog) {
	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.ActorType == "" {
		entry.ActorType = entity.ActorSystem
	}
}

func (r *Recorder) publish(entry *entity.AuditLog) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.pubsub.Publish(entriesTopic, message.NewMessage(entry.Id.String(), payload))
}

// StartWorker drains queued entries into the audit store. Insert failures are
// contained to warnings; a poisoned message is acked and dropped so the queue
// never wedges.
func (r *Recorder) StartWorker(ctx context.Context) error {
	if r.pubsub == nil {
		return nil
	}
	messages, err := r.pubsub.Subscribe(ctx, entriesTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var entry entity.AuditLog
			if err := json.Unmarshal(msg.Payload, &entry); err != nil {
				r.logger.Warn("AUDIT", "Dropping malformed audit message", map[string]interface{}{
					"error": err.Error(),
				})
				msg.Ack()
				continue
			}

			uow := r.uowFactory.NewUnitOfWork(ctx)
			if err := uow.AuditLogRepository().Insert(ctx, &entry); err != nil {
				r.logger.Warn("AUDIT", "Failed to persist audit entry", map[string]interface{}{
					"actionType": entry.ActionType,
					"error":      err.Error(),
				})
			}
			msg.Ack()
		}
	}()
	return nil
}

// QueryByUser returns the latest entries about a subject user. Read failures
// degrade to an empty result set.
func (r *Recorder) QueryByUser(ctx context.Context, userId uuid.UUID, limit int) []*entity.AuditLog {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AuditLogRepository().FindByUser(ctx, userId, normalizeLimit(limit))
	if err != nil {
		r.logger.Warn("AUDIT", "Audit query failed", map[string]interface{}{"error": err.Error()})
		return []*entity.AuditLog{}
	}
	return logs
}

func (r *Recorder) QueryByActionType(ctx context.Context, actionType string, limit int) []*entity.AuditLog {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AuditLogRepository().FindByActionType(ctx, actionType, normalizeLimit(limit))
	if err != nil {
		r.logger.Warn("AUDIT", "Audit query failed", map[string]interface{}{"error": err.Error()})
		return []*entity.AuditLog{}
	}
	return logs
}

func (r *Recorder) QueryByActorType(ctx context.Context, actorType entity.ActorType, limit int) []*entity.AuditLog {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AuditLogRepository().FindByActorType(ctx, actorType, normalizeLimit(limit))
	if err != nil {
		r.logger.Warn("AUDIT", "Audit query failed", map[string]interface{}{"error": err.Error()})
		return []*entity.AuditLog{}
	}
	return logs
}

// AggregateLast24h returns entry counts per action type for the trailing day,
// cached briefly for the dashboard poll.
func (r *Recorder) AggregateLast24h(ctx context.Context) map[string]int64 {
	if cached, ok := r.cache.Get(aggregateCacheKey); ok {
		return cached.(map[string]int64)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	counts, err := uow.AuditLogRepository().CountByActionSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		r.logger.Warn("AUDIT", "Audit aggregate failed", map[string]interface{}{"error": err.Error()})
		return map[string]int64{}
	}

	r.cache.Set(aggregateCacheKey, counts, aggregateCacheTTL)
	return counts
}

func normalizeLimit(limit int) int {
	if limit < 1 || limit > 500 {
		return 50
	}
	return limit
}
