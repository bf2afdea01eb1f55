package anonymize

import (
	"context"
	"testing"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/lock"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/fake"
	"rentadmin-be/pkg/admin/retention"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRestorer() *Restorer {
	return NewRestorer(logger.NewNopLogger(), lock.NewLocalLocker())
}

func TestRestoreClearsLifecycleMarkers(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)

	engine := newTestEngine()
	result, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	require.NoError(t, err)

	restorer := newTestRestorer()
	require.NoError(t, restorer.Restore(context.Background(), uow, u.Id))

	got := uow.Users.Get(u.Id)
	require.NotNil(t, got)

	// Markers gone, account usable again.
	assert.Nil(t, got.DeletedAt)
	assert.Nil(t, got.DeletionReason)
	assert.Equal(t, entity.LevelNone, got.AnonymizationLevel)
	assert.Nil(t, got.AnonymizedAt)
	assert.Nil(t, got.AnonymousId)
	assert.Equal(t, entity.UserStatusActive, got.Status)

	// Restore is not an undo: the overwritten personal fields stay as the
	// anonymization left them.
	assert.Equal(t, "anon_"+result.AnonymousId+"@anonymized.local", got.Email)
	assert.Equal(t, "Utilisateur", got.FirstName)
}

func TestRestoreRejectsPurgedUser(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)
	u.AnonymizationLevel = entity.LevelPurged
	uow.Users.Put(u)

	restorer := newTestRestorer()
	err := restorer.Restore(context.Background(), uow, u.Id)
	assert.ErrorIs(t, err, ErrAlreadyPurged)
}

func TestRestoreNothingToRestore(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)

	restorer := newTestRestorer()
	err := restorer.Restore(context.Background(), uow, u.Id)
	assert.ErrorIs(t, err, ErrNothingToRestore)
}

func TestRestoreUnknownUser(t *testing.T) {
	uow := fake.NewUnitOfWork()

	restorer := newTestRestorer()
	err := restorer.Restore(context.Background(), uow, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
