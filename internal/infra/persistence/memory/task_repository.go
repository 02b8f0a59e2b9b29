package memory

import (
	"context"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
)

// taskRepository implements repository.TaskRepository over the shared Store.
type taskRepository struct {
	store    *Store
	withLock bool
}

// NewTaskRepository is the constructor for the in-memory task repository.
func NewTaskRepository(store *Store) repository.TaskRepository {
	return &taskRepository{store: store, withLock: true}
}

func (repo *taskRepository) lock() func() {
	if !repo.withLock {
		return func() {}
	}

	repo.store.mu.Lock()

	return repo.store.mu.Unlock
}

// Create persists a new task.
func (repo *taskRepository) Create(_ context.Context, task *entity.Task) error {
	defer repo.lock()()

	return repo.store.createTask(task)
}

// FindByID retrieves a task by id within the owner's scope.
func (repo *taskRepository) FindByID(_ context.Context, id, ownerID string) (*entity.Task, error) {
	defer repo.lock()()

	return repo.store.findTask(id, ownerID)
}

// ListByOwner retrieves all tasks for an owner, newest first, applying the filter.
func (repo *taskRepository) ListByOwner(_ context.Context, ownerID string, filter repository.TaskFilter) ([]*entity.Task, error) {
	defer repo.lock()()

	return repo.store.listTasks(ownerID, filter), nil
}

// Update modifies an existing task within the owner's scope.
func (repo *taskRepository) Update(_ context.Context, task *entity.Task) error {
	defer repo.lock()()

	return repo.store.updateTask(task)
}

// Delete removes a task by id within the owner's scope.
func (repo *taskRepository) Delete(_ context.Context, id, ownerID string) error {
	defer repo.lock()()

	return repo.store.deleteTask(id, ownerID)
}
