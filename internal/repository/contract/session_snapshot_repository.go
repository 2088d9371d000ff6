package contract

import (
	"context"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/repository/specification"
)

type SessionSnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *entity.SessionSnapshotRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionSnapshotRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionSnapshotRecord, error)
}
