package retention

import (
	"context"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/contract"
	"rentadmin-be/internal/repository/specification"
	"rentadmin-be/internal/repository/unitofwork"
)

// PurgeStatistics is returned to the scheduler and shown on the dashboard.
type PurgeStatistics struct {
	ActiveUsers  int64 `json:"active_users"`
	DeletedUsers int64 `json:"deleted_users"`
}

type PurgeResult struct {
	Success        bool            `json:"success"`
	PurgesExecuted int             `json:"purges_executed"`
	Statistics     PurgeStatistics `json:"statistics"`
	Timestamp      time.Time       `json:"timestamp"`
	Err            error           `json:"-"`
}

// Executor finalizes anonymized accounts whose retention floor has elapsed.
//
// Run is triggered externally (cron or the HTTP endpoint) and is safe under
// at-least-once invocation: the eligibility predicate excludes accounts that
// are already PURGED, so re-running against the same set is a no-op.
type Executor struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewExecutor(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) *Executor {
	return &Executor{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Run selects every profile with deleted_at older than the purge floor and an
// anonymization level set, and transitions it to the terminal PURGED state.
//
// The profile row is kept (not hard-deleted) so retained financial records
// stay linkable through the anonymous id; residual personal columns are
// nulled and lingering non-financial rows swept. A failure of the selection
// query fails the whole run; per-user failures are logged and the next
// scheduled run retries them.
func (e *Executor) Run(ctx context.Context) *PurgeResult {
	result := &PurgeResult{Timestamp: time.Now()}
	uow := e.uowFactory.NewUnitOfWork(ctx)

	cutoff := time.Now().AddDate(-PurgeFloorYears, 0, 0)
	eligible, err := uow.UserRepository().FindAllUnscoped(ctx,
		specification.DeletedBefore{Cutoff: cutoff},
		specification.Anonymized{},
	)
	if err != nil {
		e.logger.Error("RETENTION", "Purge eligibility query failed", map[string]interface{}{
			"error": err.Error(),
		})
		result.Err = err
		return result
	}

	for _, user := range eligible {
		if err := e.purgeUser(ctx, uow, user); err != nil {
			e.logger.Error("RETENTION", "Failed to purge user", map[string]interface{}{
				"userId": user.Id.String(),
				"error":  err.Error(),
			})
			continue
		}
		result.PurgesExecuted++
	}

	// Aggregate statistics for the run report. Failures here degrade the
	// numbers, not the purge itself.
	if active, err := uow.UserRepository().Count(ctx); err == nil {
		result.Statistics.ActiveUsers = active
	}
	if deleted, err := uow.UserRepository().CountUnscoped(ctx, specification.Deleted{}); err == nil {
		result.Statistics.DeletedUsers = deleted
	}

	e.logger.Info("RETENTION", "Purge run completed", map[string]interface{}{
		"purged":   result.PurgesExecuted,
		"eligible": len(eligible),
		"cutoff":   cutoff.Format(time.RFC3339),
	})

	result.Success = true
	return result
}

func (e *Executor) purgeUser(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) error {
	fields := map[string]interface{}{
		"anonymization_level": string(entity.LevelPurged),
		"password_hash":       nil,
		"phone":               nil,
		"avatar_url":          nil,
	}
	if err := uow.UserRepository().UpdateFields(ctx, user.Id, fields); err != nil {
		return err
	}

	// Sweep rows a FULL anonymization may have missed or a PARTIAL one kept.
	// Financial collections stay untouched.
	for _, collection := range contract.NonFinancialCollections() {
		if _, err := uow.BusinessRecordRepository().DeleteByUser(ctx, collection, user.Id); err != nil {
			e.logger.Warn("RETENTION", "Failed to sweep collection during purge", map[string]interface{}{
				"userId":     user.Id.String(),
				"collection": string(collection),
				"error":      err.Error(),
			})
		}
	}
	return nil
}
