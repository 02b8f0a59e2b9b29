package repository

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrTaskNotFound is returned when a task does not exist within the owner's
// scope. Lookups never reveal whether the id exists under another owner.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows ListByOwner results. Zero value means no filtering.
type TaskFilter struct {
	// Completed filters on completion state when non-nil.
	Completed *bool
	// Search keeps tasks whose title or description contains the substring
	// (case-insensitive).
	Search string
}

// TaskRepository defines the operations for task persistence. Every method is
// owner-scoped: a task is only visible through its owner's id.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves a task by id within the owner's scope.
	FindByID(ctx context.Context, id, ownerID string) (*entity.Task, error)

	// ListByOwner retrieves all tasks for an owner, newest first, applying
	// the filter.
	ListByOwner(ctx context.Context, ownerID string, filter TaskFilter) ([]*entity.Task, error)

	// Update modifies an existing task within the owner's scope.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes a task by id within the owner's scope.
	Delete(ctx context.Context, id, ownerID string) error
}
