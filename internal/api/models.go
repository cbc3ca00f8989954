package api

import (
	"github.com/google/uuid"

	"github.com/jmilford/taskward/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone"    validate:"required"`
	Region   string `json:"region"   validate:"omitempty,max=64"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for task creation. The quick-add
// form sends only title, due date, and optionally priority; the detailed
// form adds a description and start date.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	StartDate   string `json:"start_date"  validate:"omitempty"`
	DueDate     string `json:"due_date"    validate:"required"`
}

// CreateTaskResponse defines the response for task creation. On success
// TaskDeadline echoes the stored deadline; on a validation failure Errors
// carries per-field messages and Success is false.
type CreateTaskResponse struct {
	Success      bool                `json:"success"`
	Task         *domain.Task        `json:"task,omitempty"`
	TaskDeadline string              `json:"task_deadline,omitempty"`
	Errors       map[string][]string `json:"errors,omitempty"`
}

// TaskListResponse defines the response for the task list endpoint.
type TaskListResponse struct {
	Tasks        []*domain.Task `json:"tasks"`
	ExpiringSoon []*domain.Task `json:"expiring_soon"`
	SelectedTask *domain.Task   `json:"selected_task,omitempty"`
}

// SuccessResponse acknowledges a state-changing operation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// FieldErrorResponse carries per-field failures for form-style endpoints.
type FieldErrorResponse struct {
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors"`
}

// UpdateProfileRequest defines the payload for the profile update endpoint.
// All fields are full replacements; clients send current values for fields
// the user did not change.
type UpdateProfileRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=64"`
	Email     string `json:"email"      validate:"required,email"`
	Phone     string `json:"phone"      validate:"required"`
	Region    string `json:"region"     validate:"omitempty,max=64"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}
