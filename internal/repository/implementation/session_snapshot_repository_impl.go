package implementation

import (
	"context"
	"errors"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/mapper"
	"deal-intake-be/internal/model"
	"deal-intake-be/internal/repository/contract"
	"deal-intake-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionSnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SnapshotMapper
}

func NewSessionSnapshotRepository(db *gorm.DB) contract.SessionSnapshotRepository {
	return &SessionSnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewSnapshotMapper(),
	}
}

func (r *SessionSnapshotRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert keeps one row per session, last write wins.
func (r *SessionSnapshotRepositoryImpl) Upsert(ctx context.Context, snapshot *entity.SessionSnapshotRecord) error {
	m := r.mapper.ToModel(snapshot)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "current_phase", "payload", "updated_at"}),
	}).Create(m).Error
}

func (r *SessionSnapshotRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionSnapshotRecord, error) {
	var m model.SessionSnapshot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionSnapshotRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionSnapshotRecord, error) {
	var models []*model.SessionSnapshot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]*entity.SessionSnapshotRecord, len(models))
	for i, m := range models {
		records[i] = r.mapper.ToEntity(m)
	}
	return records, nil
}
