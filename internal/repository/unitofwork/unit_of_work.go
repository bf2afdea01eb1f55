package unitofwork

import (
	"context"

	"rentadmin-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	BusinessRecordRepository() contract.BusinessRecordRepository
	AuditLogRepository() contract.AuditLogRepository
}
