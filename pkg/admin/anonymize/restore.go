package anonymize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentadmin-be/internal/pkg/lock"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/specification"
	"rentadmin-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrNothingToRestore = errors.New("user has no active deletion to restore")

// Restorer clears the deletion markers on a soft-deleted account.
//
// Restore reverses the deletion flag only. Personal fields destroyed by the
// engine stay at their anonymized placeholders; the account comes back as a
// "Utilisateur Anonymisé" identity until the user updates their profile. This
// limitation is deliberate and surfaced to operators, not silently patched.
type Restorer struct {
	logger logger.ILogger
	locker lock.UserLocker
}

func NewRestorer(logger logger.ILogger, locker lock.UserLocker) *Restorer {
	return &Restorer{
		logger: logger,
		locker: locker,
	}
}

func (r *Restorer) Restore(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	release, err := r.locker.Acquire(ctx, userId.String(), lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire user lock: %w", err)
	}
	defer release()

	user, err := uow.UserRepository().FindOneUnscoped(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsPurged() {
		return ErrAlreadyPurged
	}
	if !user.IsDeleted() {
		return ErrNothingToRestore
	}

	if err := uow.UserRepository().Restore(ctx, userId); err != nil {
		r.logger.Error("RESTORE", "Failed to restore user", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
		return err
	}

	r.logger.Info("RESTORE", "User restored", map[string]interface{}{
		"userId":     userId.String(),
		"deletedAt":  user.DeletedAt.Format(time.RFC3339),
		"priorLevel": string(user.AnonymizationLevel),
	})
	return nil
}
