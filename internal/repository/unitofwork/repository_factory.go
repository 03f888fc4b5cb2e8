package unitofwork

import "context"

// RepositoryFactory hands out short-lived units of work over the shared
// database handle.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
