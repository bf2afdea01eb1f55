package dashboard

import (
	"context"
	"time"

	"rentadmin-be/internal/dto"
	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/specification"
	"rentadmin-be/internal/repository/unitofwork"
	"rentadmin-be/pkg/admin/retention"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves the headline numbers for the admin dashboard, including
// the deletion-lifecycle breakdown.
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	totalUsers, err := uow.UserRepository().CountUnscoped(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	lockedUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusLocked))
	if err != nil {
		return nil, err
	}

	deletedUsers, err := uow.UserRepository().CountUnscoped(ctx, specification.Deleted{})
	if err != nil {
		return nil, err
	}

	anonymizedUsers, err := uow.UserRepository().CountUnscoped(ctx, specification.Anonymized{})
	if err != nil {
		return nil, err
	}

	// Accounts already past the retention floor, waiting for the next purge.
	cutoff := time.Now().AddDate(-retention.PurgeFloorYears, 0, 0)
	purgeEligible, err := uow.UserRepository().CountUnscoped(ctx,
		specification.DeletedBefore{Cutoff: cutoff},
		specification.Anonymized{},
	)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardStats{
		TotalUsers:      totalUsers,
		ActiveUsers:     activeUsers,
		LockedUsers:     lockedUsers,
		DeletedUsers:    deletedUsers,
		AnonymizedUsers: anonymizedUsers,
		PurgeEligible:   purgeEligible,
	}, nil
}

// GetSystemLogs retrieves system logs
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, page, limit int, level string) ([]*dto.LogListResponse, error) {
	logs, err := loggerSvc.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	var res []*dto.LogListResponse
	for _, l := range logs {
		ts, _ := time.Parse(time.RFC3339, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(time.RFC3339, l.Timestamp)

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}
