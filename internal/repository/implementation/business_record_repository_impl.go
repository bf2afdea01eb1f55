package implementation

import (
	"context"
	"time"

	"rentadmin-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewBusinessRecordRepository(db *gorm.DB) contract.BusinessRecordRepository {
	return &BusinessRecordRepositoryImpl{db: db}
}

func (r *BusinessRecordRepositoryImpl) TagByUser(ctx context.Context, collection contract.Collection, userID uuid.UUID, anonymousID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Table(string(collection)).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"anonymous_user_id":  anonymousID,
			"user_anonymized_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *BusinessRecordRepositoryImpl) DeleteByUser(ctx context.Context, collection contract.Collection, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Table(string(collection)).
		Where("user_id = ?", userID).
		Delete(nil)
	return result.RowsAffected, result.Error
}

func (r *BusinessRecordRepositoryImpl) CountByUser(ctx context.Context, collection contract.Collection, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(string(collection)).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
