package impl

import (
	"context"
	"log/slog"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface. Every query it issues is
// scoped to the owning user, so a foreign task id is indistinguishable from a
// missing one.
type taskService struct {
	taskRepo  repository.TaskRepository
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo  repository.TaskRepository
	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo:  params.TaskRepo,
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateTask persists a new task under the owner's collection.
func (srv *taskService) CreateTask(ctx context.Context, input *usecase.CreateTaskInput) (*entity.Task, error) {
	task := &entity.Task{
		ID:          entity.NewTaskID(),
		UserID:      input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Error("Failed to create task", slog.String("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create task")
	}

	srv.log(ctx).Debug("Task created", slog.String("taskID", task.ID), slog.String("ownerID", input.OwnerID))

	return task, nil
}

// ListTasks returns the owner's tasks, newest first, applying the filter.
func (srv *taskService) ListTasks(ctx context.Context, ownerID string, filter repository.TaskFilter) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list tasks", slog.String("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// GetTask returns one task from the owner's collection.
func (srv *taskService) GetTask(ctx context.Context, ownerID, taskID string) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}

		return nil, errors.Wrap(err, "failed to load task")
	}

	return task, nil
}

// UpdateTask applies the provided fields to an existing task. The read and
// the write share one transaction so concurrent updates never interleave.
func (srv *taskService) UpdateTask(ctx context.Context, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	var updated *entity.Task

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.TaskRepo()

		task, findErr := taskRepo.FindByID(ctx, input.TaskID, input.OwnerID)
		if findErr != nil {
			return findErr
		}

		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Completed != nil {
			task.Completed = *input.Completed
		}

		if updateErr := taskRepo.Update(ctx, task); updateErr != nil {
			return updateErr
		}

		updated = task

		return nil
	})

	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}

		srv.log(ctx).Error("Failed to update task", slog.String("taskID", input.TaskID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update task")
	}

	return updated, nil
}

// SetTaskCompleted flips the completion flag. Idempotent: completing an
// already completed task succeeds and changes nothing but the timestamp.
func (srv *taskService) SetTaskCompleted(ctx context.Context, ownerID, taskID string, completed bool) (*entity.Task, error) {
	return srv.UpdateTask(ctx, &usecase.UpdateTaskInput{
		OwnerID:   ownerID,
		TaskID:    taskID,
		Completed: &completed,
	})
}

// DeleteTask removes one task from the owner's collection.
func (srv *taskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if err := srv.taskRepo.Delete(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}

		srv.log(ctx).Error("Failed to delete task", slog.String("taskID", taskID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete task")
	}

	srv.log(ctx).Debug("Task deleted", slog.String("taskID", taskID), slog.String("ownerID", ownerID))

	return nil
}
