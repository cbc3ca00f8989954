package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority classifies how urgent a task is.
type Priority string

// Valid priorities. Medium is the default for new tasks.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ReminderLeadTime is how far ahead of a task's deadline its reminder fires.
const ReminderLeadTime = 2 * time.Hour

// ExpiringWindow is the horizon within which an uncompleted task counts as
// expiring soon.
const ExpiringWindow = 7 * 24 * time.Hour

// maxTitleLength bounds task titles, matching the column width.
const maxTitleLength = 200

// Valid reports whether p is one of the recognized priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the sort rank for search ordering: high=1, medium=2, low=3.
// Unrecognized priorities rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Task is a user-owned unit of work with a title, priority, and deadline.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     time.Time  `json:"due_date"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a new Task owned by userID with a generated ID and
// creation timestamp. An empty priority defaults to medium.
// Returns a ValidationError if any field is invalid.
func NewTask(userID uuid.UUID, title string, priority Priority, dueDate time.Time) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Priority:  priority,
		DueDate:   dueDate,
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns a ValidationError naming the offending field on failure.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}

	if t.Title == "" {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if len(t.Title) > maxTitleLength {
		return NewValidationError("title", "is too long", nil)
	}

	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be low, medium, or high", ErrInvalidPriority)
	}

	if t.DueDate.IsZero() {
		return NewValidationError("due_date", "is required", nil)
	}

	return nil
}

// IsExpiringSoonAt reports whether the task's deadline falls within the
// next 7 days of now, both bounds inclusive.
func (t *Task) IsExpiringSoonAt(now time.Time) bool {
	return !t.DueDate.Before(now) && !t.DueDate.After(now.Add(ExpiringWindow))
}

// IsOverdueAt reports whether the deadline has passed as of now.
func (t *Task) IsOverdueAt(now time.Time) bool {
	return t.DueDate.Before(now)
}

// ReminderTime is the instant the task's reminder should fire,
// 2 hours before the deadline.
func (t *Task) ReminderTime() time.Time {
	return t.DueDate.Add(-ReminderLeadTime)
}
