package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmilford/taskward/internal/domain"
)

// TaskFilter narrows a task listing. Zero-valued fields are not applied.
// Owner is always required; tasks are never visible across users.
type TaskFilter struct {
	// Owner restricts results to tasks owned by this user. Required.
	Owner uuid.UUID

	// DueAfter and DueBefore bound due_date inclusively when non-zero.
	DueAfter  time.Time
	DueBefore time.Time

	// Completed filters on completion state when non-nil.
	Completed *bool
}

// TaskStore defines the interface for task data persistence.
// Listings are ordered ascending by due date; in-memory ranking for search
// is layered on top by the service.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task owned by owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, owner, id uuid.UUID) (*domain.Task, error)

	// List retrieves tasks matching the filter, ordered ascending by due date.
	// An empty result is not an error.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// SetCompleted marks a task owned by owner as completed (or not).
	// Returns ErrTaskNotFound if the task does not exist or belongs to
	// another user.
	SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error

	// Delete removes a task owned by owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to
	// another user.
	Delete(ctx context.Context, owner, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
