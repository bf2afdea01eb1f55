package mapper

import (
	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/model"

	"gorm.io/gorm"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	u := &model.User{
		Id:                 e.Id,
		Email:              e.Email,
		PasswordHash:       e.PasswordHash,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		FullName:           e.FullName,
		Phone:              e.Phone,
		AvatarURL:          e.AvatarURL,
		Role:               string(e.Role),
		Status:             string(e.Status),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
		DeletionReason:     e.DeletionReason,
		AnonymizationLevel: string(e.AnonymizationLevel),
		AnonymizedAt:       e.AnonymizedAt,
		AnonymousId:        e.AnonymousId,
	}
	if e.DeletedAt != nil {
		u.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	return u
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	e := &entity.User{
		Id:                 u.Id,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		FullName:           u.FullName,
		Phone:              u.Phone,
		AvatarURL:          u.AvatarURL,
		Role:               entity.UserRole(u.Role),
		Status:             entity.UserStatus(u.Status),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		DeletionReason:     u.DeletionReason,
		AnonymizationLevel: entity.AnonymizationLevel(u.AnonymizationLevel),
		AnonymizedAt:       u.AnonymizedAt,
		AnonymousId:        u.AnonymousId,
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		e.DeletedAt = &t
	}
	return e
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, 0, len(users))
	for _, u := range users {
		entities = append(entities, m.ToEntity(u))
	}
	return entities
}
