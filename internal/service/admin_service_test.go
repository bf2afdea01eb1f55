package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentadmin-be/internal/dto"
	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/lock"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/fake"
	"rentadmin-be/pkg/admin/anonymize"
	"rentadmin-be/pkg/admin/audit"
	"rentadmin-be/pkg/admin/dashboard"
	adminEvents "rentadmin-be/pkg/admin/events"
	"rentadmin-be/pkg/admin/retention"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(uow *fake.UnitOfWork) IAdminService {
	factory := fake.NewFactory(uow)
	nop := logger.NewNopLogger()
	locker := lock.NewLocalLocker()

	return NewAdminService(
		factory,
		nop,
		anonymize.NewEngine(nop, locker),
		anonymize.NewRestorer(nop, locker),
		retention.NewExecutor(factory, nop),
		audit.NewRecorder(factory, nop, nil),
		dashboard.NewAggregator(nop),
		adminEvents.NewNatsPublisher(nil, nop),
		nil, // no SMTP in unit tests
		"test-secret",
		"", // report mail disabled
	)
}

func seedActiveUser(uow *fake.UnitOfWork, email string) *entity.User {
	u := &entity.User{
		Id:     uuid.New(),
		Email:  email,
		Role:   entity.UserRoleUser,
		Status: entity.UserStatusActive,
	}
	uow.Users.Put(u)
	return u
}

func TestBulkAnonymizePartialSuccess(t *testing.T) {
	uow := fake.NewUnitOfWork()
	ok1 := seedActiveUser(uow, "a@example.com")
	ok2 := seedActiveUser(uow, "b@example.com")
	broken := seedActiveUser(uow, "c@example.com")
	uow.Users.UpdateFieldsErr[broken.Id] = errors.New("write conflict")
	missing := uuid.New()

	svc := newTestService(uow)
	res, err := svc.BulkAnonymizeUsers(context.Background(), dto.BulkAnonymizeRequest{
		UserIds: []string{ok1.Id.String(), broken.Id.String(), ok2.Id.String(), missing.String()},
		Reason:  "gdpr_compliance",
		Level:   "PARTIAL",
	})
	require.NoError(t, err)

	// Accounts are independent: failures never roll back the successes.
	assert.Equal(t, 2, res.SucceededCount)
	assert.Equal(t, 2, res.FailedCount)
	require.Len(t, res.Results, 4)

	byId := map[string]dto.BulkAnonymizeResult{}
	for _, r := range res.Results {
		byId[r.UserId] = r
	}
	assert.True(t, byId[ok1.Id.String()].Success)
	assert.True(t, byId[ok2.Id.String()].Success)
	assert.False(t, byId[broken.Id.String()].Success)
	assert.NotEmpty(t, byId[broken.Id.String()].Error)
	assert.False(t, byId[missing.String()].Success)

	assert.Equal(t, entity.LevelPartial, uow.Users.Get(ok1.Id).AnonymizationLevel)
	assert.Equal(t, entity.LevelNone, uow.Users.Get(broken.Id).AnonymizationLevel)

	// One summary entry lands in the audit trail.
	var summary *entity.AuditLog
	for _, l := range uow.Audit.All() {
		if l.ActionType == entity.ActionBulkAnonymization {
			summary = l
		}
	}
	require.NotNil(t, summary)
	assert.Equal(t, int64(2), int64(summary.Metadata["succeeded"].(int)))
}

func TestBulkAnonymizeRejectsInvalidLevel(t *testing.T) {
	uow := fake.NewUnitOfWork()
	svc := newTestService(uow)

	_, err := svc.BulkAnonymizeUsers(context.Background(), dto.BulkAnonymizeRequest{
		UserIds: []string{uuid.NewString()},
		Reason:  "user_request",
		Level:   "PURGED",
	})
	assert.Error(t, err)
}

func TestAnonymizeUserRecordsAudit(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedActiveUser(uow, "d@example.com")

	svc := newTestService(uow)
	res, err := svc.AnonymizeUser(context.Background(), u.Id, dto.AnonymizeUserRequest{
		Reason: "user_request",
		Level:  "FULL",
	})
	require.NoError(t, err)
	assert.Equal(t, "FULL", res.Level)
	assert.NotEmpty(t, res.AnonymousId)
	assert.NotEmpty(t, res.AnonymizedFields)

	logs := uow.Audit.All()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionUserAnonymized, logs[0].ActionType)
	require.NotNil(t, logs[0].UserId)
	assert.Equal(t, u.Id, *logs[0].UserId)
}

func TestRestoreUserReportsNonRecovery(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedActiveUser(uow, "e@example.com")

	svc := newTestService(uow)
	_, err := svc.AnonymizeUser(context.Background(), u.Id, dto.AnonymizeUserRequest{
		Reason: "user_request",
		Level:  "PARTIAL",
	})
	require.NoError(t, err)

	res, err := svc.RestoreUser(context.Background(), u.Id)
	require.NoError(t, err)
	assert.Contains(t, res.Note, "not recoverable")
	assert.Nil(t, uow.Users.Get(u.Id).DeletedAt)
}

func TestLoginRejectsNonAdmin(t *testing.T) {
	uow := fake.NewUnitOfWork()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	hashStr := string(hash)
	u := seedActiveUser(uow, "user@example.com")
	u.PasswordHash = &hashStr
	uow.Users.Put(u)

	svc := newTestService(uow)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNotAnAdmin)
}

func TestLoginIssuesToken(t *testing.T) {
	uow := fake.NewUnitOfWork()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	hashStr := string(hash)
	admin := &entity.User{
		Id:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: &hashStr,
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
	}
	uow.Users.Put(admin)

	svc := newTestService(uow)
	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(24*60*60), res.ExpiresIn)
}

func TestRunRetentionPurgeAuditsRun(t *testing.T) {
	uow := fake.NewUnitOfWork()
	deletedAt := time.Now().AddDate(-4, 0, 0)
	anonId := uuid.NewString()
	uow.Users.Put(&entity.User{
		Id:                 uuid.New(),
		Email:              "anon_" + anonId + "@anonymized.local",
		Role:               entity.UserRoleUser,
		Status:             entity.UserStatusActive,
		DeletedAt:          &deletedAt,
		AnonymizationLevel: entity.LevelFull,
		AnonymousId:        &anonId,
	})

	svc := newTestService(uow)
	res, err := svc.RunRetentionPurge(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.PurgesExecuted)

	var found bool
	for _, l := range uow.Audit.All() {
		if l.ActionType == entity.ActionRetentionPurge {
			found = true
			assert.Equal(t, entity.ActorSystem, l.ActorType)
		}
	}
	assert.True(t, found)
}
