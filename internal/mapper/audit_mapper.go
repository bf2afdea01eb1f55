package mapper

import (
	"encoding/json"

	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/model"

	"gorm.io/datatypes"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) ToModel(e *entity.AuditLog) *model.AuditLog {
	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}
	return &model.AuditLog{
		Id:          e.Id,
		ActionType:  e.ActionType,
		UserId:      e.UserId,
		Description: e.Description,
		ActorType:   string(e.ActorType),
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *AuditMapper) ToEntity(l *model.AuditLog) *entity.AuditLog {
	e := &entity.AuditLog{
		Id:          l.Id,
		ActionType:  l.ActionType,
		UserId:      l.UserId,
		Description: l.Description,
		ActorType:   entity.ActorType(l.ActorType),
		CreatedAt:   l.CreatedAt,
	}
	if len(l.Metadata) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(l.Metadata, &metadata); err == nil {
			e.Metadata = metadata
		}
	}
	return e
}

func (m *AuditMapper) ToEntities(logs []*model.AuditLog) []*entity.AuditLog {
	entities := make([]*entity.AuditLog, 0, len(logs))
	for _, l := range logs {
		entities = append(entities, m.ToEntity(l))
	}
	return entities
}
