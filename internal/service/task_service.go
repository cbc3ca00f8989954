package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/platform/logger"
	"github.com/jmilford/taskward/internal/store"
)

// dateOnlyFormat is the wire format for the list window bounds.
const dateOnlyFormat = "2006-01-02"

// Status filter values accepted by ListTasks. Any other value means
// no completion filter.
const (
	StatusCompleted  = "completed"
	StatusUnfinished = "unfinished"
	StatusExpiring   = "expiring"
)

// ListParams carries the raw list query inputs. Dates are "YYYY-MM-DD"
// strings straight from the request; parsing and defaulting happen here so
// every caller gets identical window semantics.
type ListParams struct {
	StartDate string
	EndDate   string
	Status    string
	Search    string
}

// CreateTaskParams carries the inputs for creating a task.
type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
	StartDate   *time.Time
	DueDate     time.Time
}

// CalendarEvent is a task rendered for the calendar view.
type CalendarEvent struct {
	Title string `json:"title"`
	Start string `json:"start"`
	Color string `json:"color"`
}

// ReminderScheduler schedules a deadline reminder for a freshly created task.
type ReminderScheduler interface {
	Schedule(ctx context.Context, task *domain.Task, recipient string) error
}

// TaskService provides task-related operations: the windowed list with
// search ranking and status filters, the task lifecycle, and the calendar
// feed.
type TaskService interface {
	// ListTasks returns the owner's tasks inside the date window, either
	// ranked by search relevance or filtered by completion status.
	ListTasks(ctx context.Context, owner uuid.UUID, params ListParams) ([]*domain.Task, error)

	// ListExpiring returns the owner's unfinished tasks due within the
	// next 7 days, regardless of any window.
	ListExpiring(ctx context.Context, owner uuid.UUID) ([]*domain.Task, error)

	// GetTask retrieves a single task owned by owner.
	GetTask(ctx context.Context, owner, taskID uuid.UUID) (*domain.Task, error)

	// CreateTask persists a new task and schedules its deadline reminder.
	// A reminder that cannot be scheduled does not fail the creation.
	CreateTask(ctx context.Context, owner uuid.UUID, params CreateTaskParams) (*domain.Task, error)

	// CompleteTask marks a task as completed. Completing an already
	// completed task is a no-op.
	CompleteTask(ctx context.Context, owner, taskID uuid.UUID) error

	// DeleteTask removes a task. Any reminder already scheduled for it
	// stays scheduled and will fire against the deleted task.
	DeleteTask(ctx context.Context, owner, taskID uuid.UUID) error

	// CalendarEvents renders all of the owner's tasks as calendar events.
	CalendarEvents(ctx context.Context, owner uuid.UUID) ([]CalendarEvent, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	scheduler ReminderScheduler
	logger    *slog.Logger
	now       func() time.Time // Injectable for testing
}

// Ensure TaskServiceImpl implements TaskService
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	scheduler ReminderScheduler,
	log *slog.Logger,
) *TaskServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		scheduler: scheduler,
		logger:    log.With("component", "task_service"),
		now:       time.Now,
	}
}

// ListTasks implements TaskService.
//
// The window covers whole calendar days and is inclusive on both ends. If
// either bound is absent or unparseable, the window defaults to today
// through seven days from today. A window whose start is after its end
// matches nothing.
//
// A non-blank search term takes precedence over the status filter: every
// task in the window whose title contains the term at least once
// (case-insensitive) is returned, ordered by occurrence count descending
// with priority breaking ties.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	owner uuid.UUID,
	params ListParams,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	start, end, ok := resolveWindow(params.StartDate, params.EndDate, now)
	if !ok {
		log.Debug("list window is empty, returning no tasks",
			"start_date", params.StartDate,
			"end_date", params.EndDate)
		return []*domain.Task{}, nil
	}

	filter := store.TaskFilter{
		Owner:     owner,
		DueAfter:  start,
		DueBefore: end,
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		tasks, err := s.taskStore.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks for search: %w", err)
		}
		return rankBySearch(tasks, search), nil
	}

	switch params.Status {
	case StatusCompleted:
		completed := true
		filter.Completed = &completed
	case StatusUnfinished, StatusExpiring:
		completed := false
		filter.Completed = &completed
	}

	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if params.Status == StatusExpiring {
		expiring := make([]*domain.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.IsExpiringSoonAt(now) {
				expiring = append(expiring, t)
			}
		}
		return expiring, nil
	}

	return tasks, nil
}

// resolveWindow turns the raw date strings into inclusive datetime bounds.
// The third return value is false when the window matches nothing.
func resolveWindow(startRaw, endRaw string, now time.Time) (time.Time, time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	start, startErr := time.Parse(dateOnlyFormat, startRaw)
	end, endErr := time.Parse(dateOnlyFormat, endRaw)
	if startErr != nil || endErr != nil {
		start = today
		end = today.AddDate(0, 0, 7)
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, false
	}

	// The end bound covers the whole final day.
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, true
}

// rankBySearch orders tasks by how often the term occurs in their title,
// case-insensitive and non-overlapping. Tasks without a match are dropped.
// Ties go to the higher-priority task; beyond that the incoming (due date)
// order is preserved.
func rankBySearch(tasks []*domain.Task, term string) []*domain.Task {
	needle := strings.ToLower(term)

	type scored struct {
		task  *domain.Task
		count int
	}
	matches := make([]scored, 0, len(tasks))
	for _, t := range tasks {
		if count := strings.Count(strings.ToLower(t.Title), needle); count > 0 {
			matches = append(matches, scored{task: t, count: count})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].count != matches[j].count {
			return matches[i].count > matches[j].count
		}
		return matches[i].task.Priority.Rank() < matches[j].task.Priority.Rank()
	})

	ranked := make([]*domain.Task, len(matches))
	for i, m := range matches {
		ranked[i] = m.task
	}
	return ranked
}

// ListExpiring implements TaskService.
func (s *TaskServiceImpl) ListExpiring(ctx context.Context, owner uuid.UUID) ([]*domain.Task, error) {
	now := s.now().UTC()
	completed := false

	tasks, err := s.taskStore.List(ctx, store.TaskFilter{
		Owner:     owner,
		DueAfter:  now,
		DueBefore: now.Add(domain.ExpiringWindow),
		Completed: &completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring tasks: %w", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.
func (s *TaskServiceImpl) GetTask(ctx context.Context, owner, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, owner, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return task, nil
}

// CreateTask implements TaskService.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	owner uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(owner, params.Title, domain.Priority(params.Priority), params.DueDate)
	if err != nil {
		return nil, err
	}
	task.Description = params.Description
	task.StartDate = params.StartDate

	if task.StartDate != nil && task.StartDate.After(task.DueDate) {
		return nil, ErrInvalidDateRange
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"user_id", owner,
		"due_date", task.DueDate)

	// The task is durable at this point; reminder scheduling is best-effort.
	user, err := s.userStore.GetByID(ctx, owner)
	if err != nil {
		log.Error("failed to load owner for reminder, skipping",
			"error", err,
			"task_id", task.ID,
			"user_id", owner)
		return task, nil
	}
	if err := s.scheduler.Schedule(ctx, task, user.Email); err != nil {
		log.Error("failed to schedule reminder",
			"error", err,
			"task_id", task.ID,
			"user_id", owner)
	}

	return task, nil
}

// CompleteTask implements TaskService.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, owner, taskID uuid.UUID) error {
	if err := s.taskStore.SetCompleted(ctx, owner, taskID, true); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

// DeleteTask implements TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, owner, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, owner, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CalendarEvents implements TaskService.
func (s *TaskServiceImpl) CalendarEvents(ctx context.Context, owner uuid.UUID) ([]CalendarEvent, error) {
	tasks, err := s.taskStore.List(ctx, store.TaskFilter{Owner: owner})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for calendar: %w", err)
	}

	events := make([]CalendarEvent, len(tasks))
	for i, t := range tasks {
		color := "orange"
		if t.IsCompleted {
			color = "green"
		}
		events[i] = CalendarEvent{
			Title: t.Title,
			Start: t.DueDate.Format("2006-01-02T15:04:05"),
			Color: color,
		}
	}
	return events, nil
}
