// Package fake provides in-memory implementations of the repository contracts
// for unit tests. Failure injection fields let tests exercise the partial
// failure paths of the deletion lifecycle without a database.
package fake

import (
	"context"
	"sync"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/repository/contract"
	"rentadmin-be/internal/repository/specification"
	"rentadmin-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// UserRepository is an in-memory contract.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	Users map[uuid.UUID]*entity.User

	// Failure injection
	UpdateFieldsErr map[uuid.UUID]error // per-user error on UpdateFields
	FindErr         error
	RestoreErr      error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		Users:           make(map[uuid.UUID]*entity.User),
		UpdateFieldsErr: make(map[uuid.UUID]error),
	}
}

func (r *UserRepository) Put(u *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.Users[u.Id] = &cp
}

func (r *UserRepository) Get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.Put(user)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.Put(user)
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	// The fakes only support lookup by id through FindOneUnscoped; scoped
	// FindOne additionally hides soft-deleted users.
	u, err := r.FindOneUnscoped(ctx, specs...)
	if err != nil || u == nil || u.IsDeleted() {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.Get(byID.ID), nil
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		cp := *u
		if matches(&cp, specs) {
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Users {
		if !u.IsDeleted() {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *UserRepository) FindAllUnscoped(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Users {
		cp := *u
		if matches(&cp, specs) {
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		case specification.DeletedBefore:
			if u.DeletedAt == nil || u.DeletedAt.After(s.Cutoff) {
				return false
			}
		case specification.Anonymized:
			if u.AnonymizationLevel != entity.LevelPartial && u.AnonymizationLevel != entity.LevelFull {
				return false
			}
		case specification.Deleted:
			if u.DeletedAt == nil {
				return false
			}
		}
	}
	return true
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if r.FindErr != nil {
		return 0, r.FindErr
	}
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

func (r *UserRepository) CountUnscoped(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, err := r.FindAllUnscoped(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if err := r.UpdateFieldsErr[id]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil
	}
	for field, value := range fields {
		applyField(u, field, value)
	}
	return nil
}

func applyField(u *entity.User, field string, value interface{}) {
	switch field {
	case "email":
		u.Email = value.(string)
	case "first_name":
		u.FirstName = value.(string)
	case "last_name":
		u.LastName = value.(string)
	case "full_name":
		u.FullName = value.(string)
	case "phone":
		u.Phone = asStringPtr(value)
	case "password_hash":
		u.PasswordHash = asStringPtr(value)
	case "avatar_url":
		u.AvatarURL = asStringPtr(value)
	case "anonymous_id":
		u.AnonymousId = asStringPtr(value)
	case "anonymized_at":
		u.AnonymizedAt = asTimePtr(value)
	case "deleted_at":
		u.DeletedAt = asTimePtr(value)
	case "deletion_reason":
		u.DeletionReason = asStringPtr(value)
	case "anonymization_level":
		u.AnonymizationLevel = entity.AnonymizationLevel(value.(string))
	case "status":
		u.Status = entity.UserStatus(value.(string))
	case "role":
		u.Role = entity.UserRole(value.(string))
	}
}

func asStringPtr(v interface{}) *string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return &s
	case *string:
		return s
	}
	return nil
}

func asTimePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &t
	case *time.Time:
		return t
	}
	return nil
}

func (r *UserRepository) Restore(ctx context.Context, id uuid.UUID) error {
	if r.RestoreErr != nil {
		return r.RestoreErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil
	}
	u.DeletedAt = nil
	u.DeletionReason = nil
	u.AnonymizationLevel = entity.LevelNone
	u.AnonymizedAt = nil
	u.AnonymousId = nil
	u.Status = entity.UserStatusActive
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"role": role})
}

func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	return r.FindAllUnscoped(ctx)
}

func (r *UserRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.Users {
		if string(u.Status) == status && !u.IsDeleted() {
			n++
		}
	}
	return n, nil
}

// Record is a business row owned by a user.
type Record struct {
	UserID           uuid.UUID
	AnonymousUserID  *string
	UserAnonymizedAt *time.Time
}

// BusinessRecordRepository is an in-memory contract.BusinessRecordRepository.
type BusinessRecordRepository struct {
	mu   sync.Mutex
	Rows map[contract.Collection][]*Record

	TagErr    map[contract.Collection]error
	DeleteErr map[contract.Collection]error
}

func NewBusinessRecordRepository() *BusinessRecordRepository {
	return &BusinessRecordRepository{
		Rows:      make(map[contract.Collection][]*Record),
		TagErr:    make(map[contract.Collection]error),
		DeleteErr: make(map[contract.Collection]error),
	}
}

func (r *BusinessRecordRepository) Add(collection contract.Collection, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows[collection] = append(r.Rows[collection], &Record{UserID: userID})
}

func (r *BusinessRecordRepository) RowsFor(collection contract.Collection, userID uuid.UUID) []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Record
	for _, row := range r.Rows[collection] {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out
}

func (r *BusinessRecordRepository) TagByUser(ctx context.Context, collection contract.Collection, userID uuid.UUID, anonymousID string, at time.Time) (int64, error) {
	if err := r.TagErr[collection]; err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.Rows[collection] {
		if row.UserID == userID {
			id := anonymousID
			ts := at
			row.AnonymousUserID = &id
			row.UserAnonymizedAt = &ts
			n++
		}
	}
	return n, nil
}

func (r *BusinessRecordRepository) DeleteByUser(ctx context.Context, collection contract.Collection, userID uuid.UUID) (int64, error) {
	if err := r.DeleteErr[collection]; err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*Record
	var n int64
	for _, row := range r.Rows[collection] {
		if row.UserID == userID {
			n++
			continue
		}
		kept = append(kept, row)
	}
	r.Rows[collection] = kept
	return n, nil
}

func (r *BusinessRecordRepository) CountByUser(ctx context.Context, collection contract.Collection, userID uuid.UUID) (int64, error) {
	return int64(len(r.RowsFor(collection, userID))), nil
}

// AuditLogRepository is an in-memory contract.AuditLogRepository.
type AuditLogRepository struct {
	mu   sync.Mutex
	Logs []*entity.AuditLog

	InsertErr error
	QueryErr  error
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Insert(ctx context.Context, log *entity.AuditLog) error {
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	r.Logs = append(r.Logs, &cp)
	return nil
}

func (r *AuditLogRepository) InsertBatch(ctx context.Context, logs []*entity.AuditLog) error {
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range logs {
		cp := *l
		r.Logs = append(r.Logs, &cp)
	}
	return nil
}

func (r *AuditLogRepository) All() []*entity.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AuditLog, len(r.Logs))
	copy(out, r.Logs)
	return out
}

func (r *AuditLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AuditLog, error) {
	if r.QueryErr != nil {
		return nil, r.QueryErr
	}
	var out []*entity.AuditLog
	for _, l := range r.All() {
		if l.UserId != nil && *l.UserId == userID {
			out = append(out, l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *AuditLogRepository) FindByActionType(ctx context.Context, actionType string, limit int) ([]*entity.AuditLog, error) {
	if r.QueryErr != nil {
		return nil, r.QueryErr
	}
	var out []*entity.AuditLog
	for _, l := range r.All() {
		if l.ActionType == actionType {
			out = append(out, l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *AuditLogRepository) FindByActorType(ctx context.Context, actorType entity.ActorType, limit int) ([]*entity.AuditLog, error) {
	if r.QueryErr != nil {
		return nil, r.QueryErr
	}
	var out []*entity.AuditLog
	for _, l := range r.All() {
		if l.ActorType == actorType {
			out = append(out, l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *AuditLogRepository) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	if r.QueryErr != nil {
		return nil, r.QueryErr
	}
	out := make(map[string]int64)
	for _, l := range r.All() {
		if !l.CreatedAt.Before(since) {
			out[l.ActionType]++
		}
	}
	return out, nil
}

// UnitOfWork bundles the fakes behind the unitofwork interface.
type UnitOfWork struct {
	Users   *UserRepository
	Records *BusinessRecordRepository
	Audit   *AuditLogRepository
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		Users:   NewUserRepository(),
		Records: NewBusinessRecordRepository(),
		Audit:   NewAuditLogRepository(),
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) UserRepository() contract.UserRepository {
	return u.Users
}

func (u *UnitOfWork) BusinessRecordRepository() contract.BusinessRecordRepository {
	return u.Records
}

func (u *UnitOfWork) AuditLogRepository() contract.AuditLogRepository {
	return u.Audit
}

// Factory returns the same unit of work for every request.
type Factory struct {
	UoW *UnitOfWork
}

func NewFactory(uow *UnitOfWork) *Factory {
	return &Factory{UoW: uow}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.UoW
}
