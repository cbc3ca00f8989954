package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmilford/taskward/internal/api/shared"
	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/service"
	"github.com/jmilford/taskward/internal/store"
)

// TaskHandler handles task-related API requests.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List handles GET /tasks. Query parameters: start_date and end_date bound
// the window, search ranks by title relevance, status filters by
// completion, and task_id selects a single task for detail display. The
// expiring-soon strip is always included.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	query := r.URL.Query()
	tasks, err := h.taskService.ListTasks(r.Context(), userID, service.ListParams{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Status:    query.Get("status"),
		Search:    query.Get("search"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	expiring, err := h.taskService.ListExpiring(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list expiring tasks")
		return
	}

	resp := TaskListResponse{
		Tasks:        tasks,
		ExpiringSoon: expiring,
	}

	if rawID := query.Get("task_id"); rawID != "" {
		taskID, err := uuid.Parse(rawID)
		if err != nil {
			HandleAPIError(w, r,
				domain.NewValidationError("task_id", "has invalid format", domain.ErrInvalidID), "")
			return
		}
		selected, err := h.taskService.GetTask(r.Context(), userID, taskID)
		if err != nil && !errors.Is(err, store.ErrTaskNotFound) {
			HandleAPIError(w, r, err, "Failed to retrieve task")
			return
		}
		resp.SelectedTask = selected
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Create handles POST /tasks for both the quick-add and detailed forms.
// Validation failures come back as a per-field error map with success
// false, mirroring how the forms render errors inline.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, CreateTaskResponse{
			Errors: validationErrorsToFieldMap(err),
		})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, CreateTaskResponse{
			Errors: validationErrorsToFieldMap(err),
		})
		return
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, CreateTaskResponse{
			Errors: validationErrorsToFieldMap(err),
		})
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		StartDate:   startDate,
		DueDate:     dueDate,
	})
	if err != nil {
		if status := MapErrorToStatusCode(err); status == http.StatusBadRequest {
			shared.RespondWithJSON(w, r, http.StatusBadRequest, CreateTaskResponse{
				Errors: validationErrorsToFieldMap(err),
			})
			return
		}
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Success:      true,
		Task:         task,
		TaskDeadline: task.DueDate.Format(deadlineFormat),
	})
}

// Complete handles POST /tasks/{taskID}/complete. Completing a task that
// is already completed succeeds and changes nothing.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", nil)
	if !ok {
		return
	}

	if err := h.taskService.CompleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to complete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// Delete handles DELETE /tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", nil)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// Calendar handles GET /tasks/calendar, the event feed for the calendar
// view. Completed tasks render green, everything else orange.
func (h *TaskHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	events, err := h.taskService.CalendarEvents(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load calendar events")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, events)
}
