package anonymize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/lock"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/contract"
	"rentadmin-be/internal/repository/fake"
	"rentadmin-be/pkg/admin/retention"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(logger.NewNopLogger(), lock.NewLocalLocker())
}

func seedUser(uow *fake.UnitOfWork) *entity.User {
	phone := "+33612345678"
	avatar := "https://cdn.example.com/u/jeanne.png"
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	u := &entity.User{
		Id:           uuid.New(),
		Email:        "jeanne.moreau@example.com",
		PasswordHash: &hash,
		FirstName:    "Jeanne",
		LastName:     "Moreau",
		FullName:     "Jeanne Moreau",
		Phone:        &phone,
		AvatarURL:    &avatar,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now().Add(-400 * 24 * time.Hour),
	}
	uow.Users.Put(u)
	return u
}

func TestAnonymizePartialKeepsBusinessRows(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)
	uow.Records.Add(contract.CollectionBookings, u.Id)
	uow.Records.Add(contract.CollectionReviews, u.Id)
	uow.Records.Add(contract.CollectionPayments, u.Id)

	engine := newTestEngine()
	result, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotEmpty(t, result.AnonymousId)

	got := uow.Users.Get(u.Id)
	require.NotNil(t, got)

	// Personal fields are overwritten with deterministic placeholders.
	assert.Equal(t, "anon_"+result.AnonymousId+"@anonymized.local", got.Email)
	assert.Equal(t, "Utilisateur", got.FirstName)
	assert.True(t, strings.HasPrefix(got.LastName, "Anonymisé "))
	assert.True(t, strings.HasPrefix(got.FullName, "Utilisateur Anonymisé "))
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.AvatarURL)

	// Lifecycle markers are set.
	require.NotNil(t, got.DeletedAt)
	require.NotNil(t, got.DeletionReason)
	assert.Equal(t, entity.LevelPartial, got.AnonymizationLevel)
	require.NotNil(t, got.AnonymousId)
	assert.Equal(t, result.AnonymousId, *got.AnonymousId)

	// PARTIAL keeps every business row, re-linked via the anonymous id.
	for _, collection := range contract.AllCollections() {
		for _, row := range uow.Records.RowsFor(collection, u.Id) {
			require.NotNil(t, row.AnonymousUserID, "collection %s", collection)
			assert.Equal(t, result.AnonymousId, *row.AnonymousUserID)
			assert.NotNil(t, row.UserAnonymizedAt)
		}
	}
	assert.Empty(t, result.FailedCollections())
}

func TestAnonymizeFullDeletesNonFinancialRows(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)
	uow.Records.Add(contract.CollectionBookings, u.Id)
	uow.Records.Add(contract.CollectionNotifications, u.Id)
	uow.Records.Add(contract.CollectionPayments, u.Id)
	uow.Records.Add(contract.CollectionSubscriptions, u.Id)

	engine := newTestEngine()
	result, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonGDPRCompliance, entity.LevelFull)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Non-financial rows are gone.
	assert.Empty(t, uow.Records.RowsFor(contract.CollectionBookings, u.Id))
	assert.Empty(t, uow.Records.RowsFor(contract.CollectionNotifications, u.Id))

	// Financial rows survive under the anonymous id.
	payments := uow.Records.RowsFor(contract.CollectionPayments, u.Id)
	require.Len(t, payments, 1)
	require.NotNil(t, payments[0].AnonymousUserID)
	assert.Equal(t, result.AnonymousId, *payments[0].AnonymousUserID)

	subs := uow.Records.RowsFor(contract.CollectionSubscriptions, u.Id)
	require.Len(t, subs, 1)
	assert.NotNil(t, subs[0].AnonymousUserID)

	got := uow.Users.Get(u.Id)
	assert.Equal(t, entity.LevelFull, got.AnonymizationLevel)
}

func TestAnonymizeReusesAnonymousId(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)

	engine := newTestEngine()
	first, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	require.NoError(t, err)

	// Escalating PARTIAL -> FULL keeps the identifier so retained rows
	// stay linkable.
	second, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonGDPRCompliance, entity.LevelFull)
	require.NoError(t, err)
	assert.Equal(t, first.AnonymousId, second.AnonymousId)

	got := uow.Users.Get(u.Id)
	assert.Equal(t, entity.LevelFull, got.AnonymizationLevel)
}

func TestAnonymizeRejectsLevelDowngrade(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)

	engine := newTestEngine()
	_, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonGDPRCompliance, entity.LevelFull)
	require.NoError(t, err)

	_, err = engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	assert.ErrorIs(t, err, ErrLevelDowngrade)
}

func TestAnonymizeRejectsPurgedUser(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)
	u.AnonymizationLevel = entity.LevelPurged
	uow.Users.Put(u)

	engine := newTestEngine()
	_, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	assert.ErrorIs(t, err, ErrAlreadyPurged)
}

func TestAnonymizeUnknownUser(t *testing.T) {
	uow := fake.NewUnitOfWork()

	engine := newTestEngine()
	_, err := engine.Anonymize(context.Background(), uow, uuid.New(), retention.ReasonUserRequest, entity.LevelPartial)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAnonymizePiiOverwriteFailureIsFatal(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)
	uow.Records.Add(contract.CollectionBookings, u.Id)
	uow.Users.UpdateFieldsErr[u.Id] = errors.New("connection reset")

	engine := newTestEngine()
	result, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	require.Error(t, err)
	assert.False(t, result.Success)

	// The fan-out never ran: booking rows are untouched.
	rows := uow.Records.RowsFor(contract.CollectionBookings, u.Id)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].AnonymousUserID)
}

func TestAnonymizeCollectionFailureIsNotFatal(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)
	uow.Records.Add(contract.CollectionBookings, u.Id)
	uow.Records.Add(contract.CollectionReviews, u.Id)
	uow.Records.TagErr[contract.CollectionReviews] = errors.New("table locked")

	engine := newTestEngine()
	result, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	require.NoError(t, err)
	assert.True(t, result.Success)

	failed := result.FailedCollections()
	require.Len(t, failed, 1)
	assert.Equal(t, contract.CollectionReviews, failed[0])

	// The user profile is still fully anonymized despite the partial fan-out.
	got := uow.Users.Get(u.Id)
	assert.Equal(t, entity.LevelPartial, got.AnonymizationLevel)
	assert.NotNil(t, got.DeletedAt)
}

func TestAnonymousIdSuffixAppearsInNames(t *testing.T) {
	uow := fake.NewUnitOfWork()
	u := seedUser(uow)

	engine := newTestEngine()
	result, err := engine.Anonymize(context.Background(), uow, u.Id, retention.ReasonUserRequest, entity.LevelPartial)
	require.NoError(t, err)

	suffix := result.AnonymousId[len(result.AnonymousId)-8:]
	got := uow.Users.Get(u.Id)
	assert.Equal(t, "Anonymisé "+suffix, got.LastName)
	assert.Equal(t, "Utilisateur Anonymisé "+suffix, got.FullName)
}
