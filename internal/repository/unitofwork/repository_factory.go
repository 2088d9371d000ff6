package unitofwork

import "context"

// RepositoryFactory hands out per-request transactional units over the
// shared connection pool.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
