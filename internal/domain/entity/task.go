package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single todo item. Every task is owned by exactly one user and all
// task operations must be scoped to that owner.
type Task struct {
	ID          string    // Unique identifier for the task.
	UserID      string    // Owner of the task; the authorization boundary.
	Title       string    // Short text content of the task.
	Description string    // Optional longer description.
	Completed   bool      // Whether the task is done.
	CreatedAt   time.Time // Timestamp of when the task was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}

// NewTaskID generates a fresh task identifier.
func NewTaskID() string {
	return uuid.NewString()
}
