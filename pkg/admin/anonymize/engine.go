package anonymize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/lock"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/contract"
	"rentadmin-be/internal/repository/specification"
	"rentadmin-be/internal/repository/unitofwork"
	"rentadmin-be/pkg/admin/retention"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAlreadyPurged  = errors.New("user is purged, no further operation is possible")
	ErrLevelDowngrade = errors.New("anonymization level cannot be lowered")
)

const (
	anonymizedEmailDomain = "anonymized.local"
	placeholderFirstName  = "Utilisateur"
	placeholderLastName   = "Anonymisé"
	anonymousIdSuffixLen  = 8
	lockTTL               = 30 * time.Second
)

// personalFields are the profile columns destroyed by anonymization.
var personalFields = []string{"email", "first_name", "last_name", "full_name", "phone", "avatar_url"}

type CollectionAction string

const (
	ActionTagged  CollectionAction = "tagged"
	ActionDeleted CollectionAction = "deleted"
)

// CollectionOutcome records what happened to one business record collection
// during the fan-out step. Err is non-nil when that collection's write failed;
// the overall operation still succeeds, so callers surface failed collections
// for manual reconciliation instead of discovering the drift later.
type CollectionOutcome struct {
	Collection contract.Collection `json:"collection"`
	Action     CollectionAction    `json:"action"`
	Rows       int64               `json:"rows"`
	Err        error               `json:"-"`
}

type Result struct {
	Success          bool
	UserId           uuid.UUID
	AnonymousId      string
	AnonymizedFields []string
	Collections      []CollectionOutcome
	Err              error
}

// FailedCollections lists the collections whose tag/delete failed.
func (r *Result) FailedCollections() []contract.Collection {
	var failed []contract.Collection
	for _, c := range r.Collections {
		if c.Err != nil {
			failed = append(failed, c.Collection)
		}
	}
	return failed
}

// Engine applies the configured anonymization level to a user profile and
// fans out to the business record collections.
//
// The fan-out is a sequence of independent writes, not a transaction: the
// profile overwrite is fatal-on-failure, each collection write after it is
// best effort and recorded in the result.
type Engine struct {
	logger logger.ILogger
	locker lock.UserLocker
}

func NewEngine(logger logger.ILogger, locker lock.UserLocker) *Engine {
	return &Engine{
		logger: logger,
		locker: locker,
	}
}

// Anonymize destroys the user's personal fields and, depending on level,
// re-tags or removes their business records.
//
// PARTIAL keeps every business row, re-linked through the anonymous id.
// FULL additionally deletes the non-financial rows; payments and
// subscriptions stay under legal retention and are only re-tagged.
func (e *Engine) Anonymize(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, reason retention.Reason, level entity.AnonymizationLevel) (*Result, error) {
	release, err := e.locker.Acquire(ctx, userId.String(), lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire user lock: %w", err)
	}
	defer release()

	result := &Result{UserId: userId}

	user, err := uow.UserRepository().FindOneUnscoped(ctx, specification.ByID{ID: userId})
	if err != nil {
		result.Err = err
		return result, err
	}
	if user == nil {
		result.Err = ErrUserNotFound
		return result, ErrUserNotFound
	}
	if user.IsPurged() {
		result.Err = ErrAlreadyPurged
		return result, ErrAlreadyPurged
	}
	if level.Rank() < user.AnonymizationLevel.Rank() {
		result.Err = ErrLevelDowngrade
		return result, ErrLevelDowngrade
	}

	now := time.Now()

	// The anonymous id is generated exactly once per user. Re-running the
	// engine on an already anonymized account keeps the existing id so
	// retained business rows stay linkable.
	anonymousId := newAnonymousId()
	if user.AnonymousId != nil && *user.AnonymousId != "" {
		anonymousId = *user.AnonymousId
	}
	result.AnonymousId = anonymousId
	suffix := idSuffix(anonymousId)

	// Step 1: overwrite personal fields. Fatal: without this write nothing
	// can be considered anonymized.
	piiFields := map[string]interface{}{
		"email":         fmt.Sprintf("anon_%s@%s", anonymousId, anonymizedEmailDomain),
		"first_name":    placeholderFirstName,
		"last_name":     fmt.Sprintf("%s %s", placeholderLastName, suffix),
		"full_name":     fmt.Sprintf("%s %s %s", placeholderFirstName, placeholderLastName, suffix),
		"phone":         nil,
		"avatar_url":    nil,
		"anonymous_id":  anonymousId,
		"anonymized_at": now,
	}
	if err := uow.UserRepository().UpdateFields(ctx, userId, piiFields); err != nil {
		e.logger.Error("ANONYMIZE", "Failed to overwrite personal fields", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
		result.Err = fmt.Errorf("personal data overwrite failed: %w", err)
		return result, result.Err
	}
	result.AnonymizedFields = append(result.AnonymizedFields, personalFields...)

	// Step 2: fan out to the business record collections. Best effort per
	// collection; failures are captured, never aborting the run.
	switch level {
	case entity.LevelFull:
		for _, collection := range contract.NonFinancialCollections() {
			result.Collections = append(result.Collections, e.deleteCollection(ctx, uow, collection, userId))
		}
		for _, collection := range contract.FinancialCollections() {
			result.Collections = append(result.Collections, e.tagCollection(ctx, uow, collection, userId, anonymousId, now))
		}
	default: // PARTIAL
		for _, collection := range contract.AllCollections() {
			result.Collections = append(result.Collections, e.tagCollection(ctx, uow, collection, userId, anonymousId, now))
		}
	}

	// Step 3: mark the deletion lifecycle on the profile.
	lifecycleFields := map[string]interface{}{
		"deleted_at":          now,
		"deletion_reason":     retention.Description(reason),
		"anonymization_level": string(level),
	}
	if err := uow.UserRepository().UpdateFields(ctx, userId, lifecycleFields); err != nil {
		e.logger.Error("ANONYMIZE", "Failed to mark deletion lifecycle", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
		result.Err = fmt.Errorf("lifecycle update failed: %w", err)
		return result, result.Err
	}

	if failed := result.FailedCollections(); len(failed) > 0 {
		e.logger.Warn("ANONYMIZE", "Some collections were not fully processed", map[string]interface{}{
			"userId":      userId.String(),
			"collections": failed,
		})
	}

	result.Success = true
	return result, nil
}

func (e *Engine) tagCollection(ctx context.Context, uow unitofwork.UnitOfWork, collection contract.Collection, userId uuid.UUID, anonymousId string, at time.Time) CollectionOutcome {
	rows, err := uow.BusinessRecordRepository().TagByUser(ctx, collection, userId, anonymousId, at)
	if err != nil {
		e.logger.Warn("ANONYMIZE", "Failed to tag collection", map[string]interface{}{
			"userId":     userId.String(),
			"collection": string(collection),
			"error":      err.Error(),
		})
	}
	return CollectionOutcome{Collection: collection, Action: ActionTagged, Rows: rows, Err: err}
}

func (e *Engine) deleteCollection(ctx context.Context, uow unitofwork.UnitOfWork, collection contract.Collection, userId uuid.UUID) CollectionOutcome {
	rows, err := uow.BusinessRecordRepository().DeleteByUser(ctx, collection, userId)
	if err != nil {
		e.logger.Warn("ANONYMIZE", "Failed to delete collection rows", map[string]interface{}{
			"userId":     userId.String(),
			"collection": string(collection),
			"error":      err.Error(),
		})
	}
	return CollectionOutcome{Collection: collection, Action: ActionDeleted, Rows: rows, Err: err}
}

func newAnonymousId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func idSuffix(anonymousId string) string {
	if len(anonymousId) <= anonymousIdSuffixLen {
		return anonymousId
	}
	return anonymousId[len(anonymousId)-anonymousIdSuffixLen:]
}
