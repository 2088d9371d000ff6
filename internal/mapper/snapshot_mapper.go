package mapper

import (
	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/model"

	"gorm.io/datatypes"
)

type SnapshotMapper struct{}

func NewSnapshotMapper() *SnapshotMapper {
	return &SnapshotMapper{}
}

func (m *SnapshotMapper) ToEntity(s *model.SessionSnapshot) *entity.SessionSnapshotRecord {
	if s == nil {
		return nil
	}
	return &entity.SessionSnapshotRecord{
		SessionId:    s.Id,
		Status:       s.Status,
		CurrentPhase: s.CurrentPhase,
		Payload:      s.Payload,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *SnapshotMapper) ToModel(s *entity.SessionSnapshotRecord) *model.SessionSnapshot {
	if s == nil {
		return nil
	}
	return &model.SessionSnapshot{
		Id:           s.SessionId,
		Status:       s.Status,
		CurrentPhase: s.CurrentPhase,
		Payload:      datatypes.JSON(s.Payload),
		UpdatedAt:    s.UpdatedAt,
	}
}
