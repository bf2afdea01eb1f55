package contract

import (
	"context"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Unscoped variants include soft-deleted accounts; the deletion lifecycle
	// lives almost entirely on these.
	FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAllUnscoped(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	CountUnscoped(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateFields applies a partial column update regardless of soft-delete
	// state. Lifecycle writes (PII overwrite, markers, purge transition) use
	// this instead of Save so untouched columns are never clobbered.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// Restore clears the deletion markers and reactivates the account.
	Restore(ctx context.Context, id uuid.UUID) error

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}
