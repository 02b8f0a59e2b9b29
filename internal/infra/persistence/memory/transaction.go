package memory

import (
	"context"

	"taskhub/internal/domain/repository"
)

// memTransactionManager implements TransactionManager by holding the store
// lock for the duration of the callback. There is no rollback: callbacks must
// do their checks before their writes, which every use case in this codebase
// does. The lock still gives the property that matters here: a concurrent
// reader or writer never sees a half-applied unit.
type memTransactionManager struct {
	store *Store
}

// memRepositoryFactory hands out repositories that skip locking because the
// transaction manager already holds the store mutex.
type memRepositoryFactory struct {
	store *Store
}

// UserRepo returns a user repository bound to the held lock.
func (f *memRepositoryFactory) UserRepo() repository.UserRepository {
	return &userRepository{store: f.store, withLock: false}
}

// TaskRepo returns a task repository bound to the held lock.
func (f *memRepositoryFactory) TaskRepo() repository.TaskRepository {
	return &taskRepository{store: f.store, withLock: false}
}

// NewTransactionManager is the constructor for memTransactionManager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &memTransactionManager{store: store}
}

// Execute runs the function while holding the store mutex.
func (tm *memTransactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	return fn(&memRepositoryFactory{store: tm.store})
}
