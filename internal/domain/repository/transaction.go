package repository

import "context"

// TransactionManager defines the interface for managing atomic units of work.
// The use case layer handles multi-step operations through it without
// depending on a specific backend: the SQLite implementation maps Execute to
// a database transaction, the in-memory implementation holds the store lock
// for the duration of the callback.
type TransactionManager interface {
	// Execute runs a function within a single atomic unit. If the function
	// returns an error the unit is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to the current unit
// of work.
type RepositoryFactory interface {
	// UserRepo returns a UserRepository bound to the current unit.
	UserRepo() UserRepository

	// TaskRepo returns a TaskRepository bound to the current unit.
	TaskRepo() TaskRepository
}
