package memory

import (
	"context"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
)

// userRepository implements repository.UserRepository over the shared Store.
// When withLock is false the caller (the transaction manager) already holds
// the store mutex.
type userRepository struct {
	store    *Store
	withLock bool
}

// NewUserRepository is the constructor for the in-memory user repository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store, withLock: true}
}

func (repo *userRepository) lock() func() {
	if !repo.withLock {
		return func() {}
	}

	repo.store.mu.Lock()

	return repo.store.mu.Unlock
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	defer repo.lock()()

	return repo.store.findUserByID(id)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	defer repo.lock()()

	return repo.store.findUserByEmail(email)
}

// Create persists a new user. The email index check and the insert happen
// under one lock acquisition, so racing creates on the same email yield
// exactly one success.
func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	defer repo.lock()()

	return repo.store.createUser(user)
}

// Update modifies an existing user.
func (repo *userRepository) Update(_ context.Context, user *entity.User) error {
	defer repo.lock()()

	return repo.store.updateUser(user)
}
