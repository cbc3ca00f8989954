package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmilford/taskward/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password.
	// Returns ErrEmailExists, ErrPhoneExists, or ErrUsernameExists if the
	// corresponding unique value is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their unique username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindConflicts reports which of email, phone, and username are already
	// taken by a user other than excludeID. Pass uuid.Nil to check against
	// all users (registration). The returned slice holds the conflicting
	// field names, empty when there are no conflicts.
	FindConflicts(ctx context.Context, email, phone, username string, excludeID uuid.UUID) ([]string, error)

	// Update modifies an existing user's details. The caller must provide a
	// complete user object including HashedPassword.
	// Returns ErrUserNotFound if the user does not exist and the duplicate
	// sentinels on unique constraint violations.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID. The user's tasks
	// are removed by the store's cascade rule.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
