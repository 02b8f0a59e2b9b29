package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"taskhub/internal/delivery/http/response"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TaskHandler holds dependencies for task-related handlers. The ownership
// middleware runs before every route here, so the :user_id path parameter is
// always the authenticated user's own id.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

// taskView is the task payload returned to clients.
type taskView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newTaskView(task *entity.Task) taskView {
	return taskView{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newTaskViews(tasks []*entity.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, newTaskView(task))
	}

	return views
}

// Create handles the task creation request.
func (h *TaskHandler) Create(c echo.Context) error {
	input := new(usecase.CreateTaskInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	input.OwnerID = c.Param("user_id")
	if err := c.Validate(input); err != nil {
		return err
	}

	task, err := h.uc.CreateTask(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newTaskView(task), "Task created successfully")
}

// List handles the task listing request. The completed and search query
// parameters narrow the result; omitted parameters match everything.
func (h *TaskHandler) List(c echo.Context) error {
	filter := repository.TaskFilter{
		Search: c.QueryParam("search"),
	}

	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "completed must be true or false")
		}
		filter.Completed = &completed
	}

	tasks, err := h.uc.ListTasks(c.Request().Context(), c.Param("user_id"), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskViews(tasks), "Tasks retrieved successfully")
}

// Get handles the single task request.
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.uc.GetTask(c.Request().Context(), c.Param("user_id"), c.Param("task_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskView(task), "Task retrieved successfully")
}

// Update handles the task update request. Absent fields keep their value.
func (h *TaskHandler) Update(c echo.Context) error {
	input := new(usecase.UpdateTaskInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	input.OwnerID = c.Param("user_id")
	input.TaskID = c.Param("task_id")
	if err := c.Validate(input); err != nil {
		return err
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskView(task), "Task updated successfully")
}

// completeInput optionally un-completes when the body says so; an empty body
// marks the task complete.
type completeInput struct {
	Completed *bool `json:"completed"`
}

// Complete handles the completion toggle request. Idempotent.
func (h *TaskHandler) Complete(c echo.Context) error {
	input := new(completeInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid completion input")
	}

	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}

	task, err := h.uc.SetTaskCompleted(c.Request().Context(), c.Param("user_id"), c.Param("task_id"), completed)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newTaskView(task), "Task completion updated")
}

// Delete handles the task deletion request.
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteTask(c.Request().Context(), c.Param("user_id"), c.Param("task_id")); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}
