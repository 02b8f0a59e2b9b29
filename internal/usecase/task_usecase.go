package usecase

import (
	"context"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
)

// --- Input DTOs ---

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	OwnerID     string `json:"-"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateTaskInput defines the data for a full task update. Nil fields keep
// their current value.
type UpdateTaskInput struct {
	OwnerID     string  `json:"-"`
	TaskID      string  `json:"-"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// TaskUsecase defines the interface for task-related business operations.
// Every operation is scoped to an owner: a task id outside the owner's
// collection behaves exactly like a missing one.
type TaskUsecase interface {
	CreateTask(ctx context.Context, input *CreateTaskInput) (*entity.Task, error)
	ListTasks(ctx context.Context, ownerID string, filter repository.TaskFilter) ([]*entity.Task, error)
	GetTask(ctx context.Context, ownerID, taskID string) (*entity.Task, error)
	UpdateTask(ctx context.Context, input *UpdateTaskInput) (*entity.Task, error)
	SetTaskCompleted(ctx context.Context, ownerID, taskID string, completed bool) (*entity.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
}
