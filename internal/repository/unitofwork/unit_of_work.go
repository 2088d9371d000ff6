package unitofwork

import (
	"context"

	"deal-intake-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DealRepository() contract.DealRepository
	SessionSnapshotRepository() contract.SessionSnapshotRepository
}
