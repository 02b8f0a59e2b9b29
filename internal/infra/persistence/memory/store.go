// Package memory contains the in-memory implementation of the persistence
// layer: plain maps behind a single mutex per store instance. It backs tests
// and the zero-dependency deployment mode.
package memory

import (
	"strings"
	"sync"
	"time"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
)

// Store owns the user and task tables. All access goes through its mutex:
// the repository types lock per operation, the transaction manager holds the
// lock across a whole callback. Never a process-wide singleton; construct one
// per server (or per test).
type Store struct {
	mu           sync.Mutex
	users        map[string]entity.User // keyed by user id
	emailToID    map[string]string      // unique email index
	tasks        map[string]entity.Task // keyed by task id
	tasksByOwner map[string][]string    // insertion-ordered task ids per owner
	now          func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return newStore(time.Now)
}

func newStore(now func() time.Time) *Store {
	return &Store{
		users:        make(map[string]entity.User),
		emailToID:    make(map[string]string),
		tasks:        make(map[string]entity.Task),
		tasksByOwner: make(map[string][]string),
		now:          now,
	}
}

// --- unlocked internals; callers hold s.mu ---

func (s *Store) findUserByID(id string) (*entity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

func (s *Store) findUserByEmail(email string) (*entity.User, error) {
	id, ok := s.emailToID[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user := s.users[id]

	return &user, nil
}

func (s *Store) createUser(user *entity.User) error {
	// Auto-provisioned identities may carry no email; those never hit the
	// uniqueness index.
	if user.Email != "" {
		if _, taken := s.emailToID[user.Email]; taken {
			return repository.ErrEmailExists
		}
	}

	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	if user.Email != "" {
		s.emailToID[user.Email] = user.ID
	}

	return nil
}

func (s *Store) updateUser(user *entity.User) error {
	existing, ok := s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	if user.Email != existing.Email {
		if user.Email != "" {
			if _, taken := s.emailToID[user.Email]; taken {
				return repository.ErrEmailExists
			}
		}
		delete(s.emailToID, existing.Email)
		if user.Email != "" {
			s.emailToID[user.Email] = user.ID
		}
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user

	return nil
}

func (s *Store) createTask(task *entity.Task) error {
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	s.tasks[task.ID] = *task
	s.tasksByOwner[task.UserID] = append(s.tasksByOwner[task.UserID], task.ID)

	return nil
}

func (s *Store) findTask(id, ownerID string) (*entity.Task, error) {
	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		// A foreign owner's task is indistinguishable from a missing one.
		return nil, repository.ErrTaskNotFound
	}

	return &task, nil
}

func (s *Store) listTasks(ownerID string, filter repository.TaskFilter) []*entity.Task {
	ids := s.tasksByOwner[ownerID]

	// Newest first, matching the SQLite ordering.
	out := make([]*entity.Task, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		task := s.tasks[ids[i]]
		if !matchesFilter(&task, filter) {
			continue
		}
		copied := task
		out = append(out, &copied)
	}

	return out
}

func (s *Store) updateTask(task *entity.Task) error {
	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repository.ErrTaskNotFound
	}

	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = s.now()
	s.tasks[task.ID] = *task

	return nil
}

func (s *Store) deleteTask(id, ownerID string) error {
	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return repository.ErrTaskNotFound
	}

	delete(s.tasks, id)

	ids := s.tasksByOwner[ownerID]
	for i, taskID := range ids {
		if taskID == id {
			s.tasksByOwner[ownerID] = append(ids[:i], ids[i+1:]...)

			break
		}
	}

	return nil
}

func matchesFilter(task *entity.Task, filter repository.TaskFilter) bool {
	if filter.Completed != nil && task.Completed != *filter.Completed {
		return false
	}

	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			return false
		}
	}

	return true
}
