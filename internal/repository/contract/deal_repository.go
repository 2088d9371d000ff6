package contract

import (
	"context"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DealRepository interface {
	Create(ctx context.Context, deal *entity.DealRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DealRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DealRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
