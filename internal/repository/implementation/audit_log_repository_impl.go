package implementation

import (
	"context"
	"time"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/mapper"
	"rentadmin-be/internal/model"
	"rentadmin-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditMapper(),
	}
}

func (r *AuditLogRepositoryImpl) Insert(ctx context.Context, log *entity.AuditLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *AuditLogRepositoryImpl) InsertBatch(ctx context.Context, logs []*entity.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	models := make([]*model.AuditLog, 0, len(logs))
	for _, l := range logs {
		models = append(models, r.mapper.ToModel(l))
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *AuditLogRepositoryImpl) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AuditLogRepositoryImpl) FindByActionType(ctx context.Context, actionType string, limit int) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	err := r.db.WithContext(ctx).
		Where("action_type = ?", actionType).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AuditLogRepositoryImpl) FindByActorType(ctx context.Context, actorType entity.ActorType, limit int) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	err := r.db.WithContext(ctx).
		Where("actor_type = ?", string(actorType)).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AuditLogRepositoryImpl) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		ActionType string
		Count      int64
	}
	err := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Select("action_type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.ActionType] = row.Count
	}
	return result, nil
}
