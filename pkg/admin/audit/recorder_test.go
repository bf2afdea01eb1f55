package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/fake"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSyncMode(t *testing.T) {
	uow := fake.NewUnitOfWork()
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	userId := uuid.New()
	entry := recorder.Record(context.Background(), &entity.AuditLog{
		ActionType:  entity.ActionUserAnonymized,
		UserId:      &userId,
		Description: "Account anonymized at level PARTIAL",
		ActorType:   entity.ActorAdmin,
	})
	require.NotNil(t, entry)
	assert.NotEqual(t, uuid.Nil, entry.Id)
	assert.False(t, entry.CreatedAt.IsZero())

	logs := uow.Audit.All()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionUserAnonymized, logs[0].ActionType)
}

func TestRecordDropsInvalidEntries(t *testing.T) {
	uow := fake.NewUnitOfWork()
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	assert.Nil(t, recorder.Record(context.Background(), nil))
	assert.Nil(t, recorder.Record(context.Background(), &entity.AuditLog{Description: "no action type"}))
	assert.Empty(t, uow.Audit.All())
}

func TestRecordDegradesToNoOpOnStorageFailure(t *testing.T) {
	uow := fake.NewUnitOfWork()
	uow.Audit.InsertErr = errors.New("disk full")
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	// A broken audit store must never surface an error to the caller.
	entry := recorder.Record(context.Background(), &entity.AuditLog{
		ActionType: entity.ActionRetentionPurge,
		ActorType:  entity.ActorSystem,
	})
	assert.Nil(t, entry)
}

func TestRecordDefaultsActorToSystem(t *testing.T) {
	uow := fake.NewUnitOfWork()
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	entry := recorder.Record(context.Background(), &entity.AuditLog{
		ActionType: entity.ActionRetentionPurge,
	})
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActorSystem, entry.ActorType)
}

func TestRecordBulk(t *testing.T) {
	uow := fake.NewUnitOfWork()
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	entries := []*entity.AuditLog{
		{ActionType: entity.ActionUserLocked, ActorType: entity.ActorAdmin},
		nil,
		{Description: "missing action type"},
		{ActionType: entity.ActionUserUnlocked, ActorType: entity.ActorAdmin},
	}
	accepted := recorder.RecordBulk(context.Background(), entries)
	assert.Len(t, accepted, 2)
	assert.Len(t, uow.Audit.All(), 2)
}

func TestRecordAsyncViaWorker(t *testing.T) {
	uow := fake.NewUnitOfWork()
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), pubsub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, recorder.StartWorker(ctx))

	entry := recorder.Record(ctx, &entity.AuditLog{
		ActionType: entity.ActionAdminLogin,
		ActorType:  entity.ActorAdmin,
	})
	require.NotNil(t, entry)

	// The insert happens on the worker goroutine.
	assert.Eventually(t, func() bool {
		return len(uow.Audit.All()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueryDegradesToEmpty(t *testing.T) {
	uow := fake.NewUnitOfWork()
	uow.Audit.QueryErr = errors.New("timeout")
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	assert.Empty(t, recorder.QueryByUser(context.Background(), uuid.New(), 10))
	assert.Empty(t, recorder.QueryByActionType(context.Background(), entity.ActionUserAnonymized, 10))
	assert.Empty(t, recorder.QueryByActorType(context.Background(), entity.ActorAdmin, 10))
}

func TestQueryByUserFiltersSubject(t *testing.T) {
	uow := fake.NewUnitOfWork()
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	target := uuid.New()
	other := uuid.New()
	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionUserLocked, UserId: &target})
	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionUserLocked, UserId: &other})
	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionUserRestored, UserId: &target})

	logs := recorder.QueryByUser(context.Background(), target, 50)
	assert.Len(t, logs, 2)
}

func TestAggregateLast24hCountsAndCaches(t *testing.T) {
	uow := fake.NewUnitOfWork()
	recorder := NewRecorder(fake.NewFactory(uow), logger.NewNopLogger(), nil)

	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionUserAnonymized})
	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionUserAnonymized})
	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionRetentionPurge})

	counts := recorder.AggregateLast24h(context.Background())
	assert.Equal(t, int64(2), counts[entity.ActionUserAnonymized])
	assert.Equal(t, int64(1), counts[entity.ActionRetentionPurge])

	// Cached result survives new writes until the TTL expires.
	recorder.Record(context.Background(), &entity.AuditLog{ActionType: entity.ActionRetentionPurge})
	cached := recorder.AggregateLast24h(context.Background())
	assert.Equal(t, int64(1), cached[entity.ActionRetentionPurge])
}
