package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/contract"
	"rentadmin-be/internal/repository/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDeletedUser(uow *fake.UnitOfWork, deletedAgo time.Duration, level entity.AnonymizationLevel) *entity.User {
	deletedAt := time.Now().Add(-deletedAgo)
	anonId := uuid.NewString()
	u := &entity.User{
		Id:                 uuid.New(),
		Email:              "anon_" + anonId + "@anonymized.local",
		FirstName:          "Utilisateur",
		LastName:           "Anonymisé",
		Role:               entity.UserRoleUser,
		Status:             entity.UserStatusActive,
		DeletedAt:          &deletedAt,
		AnonymizationLevel: level,
		AnonymizedAt:       &deletedAt,
		AnonymousId:        &anonId,
	}
	uow.Users.Put(u)
	return u
}

func TestPurgeRespectsThreeYearFloor(t *testing.T) {
	uow := fake.NewUnitOfWork()
	old := seedDeletedUser(uow, 4*365*24*time.Hour, entity.LevelPartial)
	recent := seedDeletedUser(uow, 30*24*time.Hour, entity.LevelFull)

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.PurgesExecuted)

	assert.Equal(t, entity.LevelPurged, uow.Users.Get(old.Id).AnonymizationLevel)
	// A GDPR request (advisory retention 0) still waits out the floor.
	assert.Equal(t, entity.LevelFull, uow.Users.Get(recent.Id).AnonymizationLevel)
}

func TestPurgeNullsResidualPersonalColumns(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedDeletedUser(uow, 4*365*24*time.Hour, entity.LevelPartial)
	phone := "+33699999999"
	hash := "$2a$10$leftover"
	u.Phone = &phone
	u.PasswordHash = &hash
	uow.Users.Put(u)
	uow.Records.Add(contract.CollectionBookings, u.Id)
	uow.Records.Add(contract.CollectionPayments, u.Id)

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())
	require.NoError(t, result.Err)

	got := uow.Users.Get(u.Id)
	assert.Equal(t, entity.LevelPurged, got.AnonymizationLevel)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.PasswordHash)

	// Lingering non-financial rows are swept, financial rows survive.
	assert.Empty(t, uow.Records.RowsFor(contract.CollectionBookings, u.Id))
	assert.Len(t, uow.Records.RowsFor(contract.CollectionPayments, u.Id), 1)
}

func TestPurgeIsIdempotent(t *testing.T) {
	uow := fake.NewUnitOfWork()
	seedDeletedUser(uow, 4*365*24*time.Hour, entity.LevelFull)

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())

	first := executor.Run(context.Background())
	require.NoError(t, first.Err)
	assert.Equal(t, 1, first.PurgesExecuted)

	// PURGED accounts no longer match the eligibility predicate.
	second := executor.Run(context.Background())
	require.NoError(t, second.Err)
	assert.Equal(t, 0, second.PurgesExecuted)
	assert.True(t, second.Success)
}

func TestPurgeSkipsNonAnonymizedDeletions(t *testing.T) {
	uow := fake.NewUnitOfWork()
	// Deleted long ago but never anonymized: the purge never touches it.
	deletedAt := time.Now().Add(-5 * 365 * 24 * time.Hour)
	u := &entity.User{
		Id:        uuid.New(),
		Email:     "dormant@example.com",
		Role:      entity.UserRoleUser,
		Status:    entity.UserStatusActive,
		DeletedAt: &deletedAt,
	}
	uow.Users.Put(u)

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, 0, result.PurgesExecuted)
	assert.Equal(t, entity.LevelNone, uow.Users.Get(u.Id).AnonymizationLevel)
}

func TestPurgeEmptyRunSucceeds(t *testing.T) {
	uow := fake.NewUnitOfWork()

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.PurgesExecuted)
}

func TestPurgeQueryFailureFailsRun(t *testing.T) {
	uow := fake.NewUnitOfWork()
	uow.Users.FindErr = errors.New("connection refused")

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())

	assert.Error(t, result.Err)
	assert.False(t, result.Success)
}

func TestPurgePerUserFailureDoesNotAbortRun(t *testing.T) {
	uow := fake.NewUnitOfWork()
	failing := seedDeletedUser(uow, 4*365*24*time.Hour, entity.LevelPartial)
	healthy := seedDeletedUser(uow, 4*365*24*time.Hour, entity.LevelFull)
	uow.Users.UpdateFieldsErr[failing.Id] = errors.New("row locked")

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.PurgesExecuted)
	assert.Equal(t, entity.LevelPurged, uow.Users.Get(healthy.Id).AnonymizationLevel)
	assert.Equal(t, entity.LevelPartial, uow.Users.Get(failing.Id).AnonymizationLevel)
}

func TestPurgeStatistics(t *testing.T) {
	uow := fake.NewUnitOfWork()
	seedDeletedUser(uow, 4*365*24*time.Hour, entity.LevelPartial)
	uow.Users.Put(&entity.User{
		Id:     uuid.New(),
		Email:  "active@example.com",
		Role:   entity.UserRoleUser,
		Status: entity.UserStatusActive,
	})

	executor := NewExecutor(fake.NewFactory(uow), logger.NewNopLogger())
	result := executor.Run(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, int64(1), result.Statistics.ActiveUsers)
	assert.Equal(t, int64(1), result.Statistics.DeletedUsers)
	assert.False(t, result.Timestamp.IsZero())
}
