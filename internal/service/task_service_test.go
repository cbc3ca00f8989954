package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/store"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestTaskService(
	t *testing.T,
) (*TaskServiceImpl, *fakeTaskStore, *fakeUserStore, *fakeScheduler) {
	t.Helper()
	taskStore := newFakeTaskStore()
	userStore := newFakeUserStore()
	scheduler := &fakeScheduler{}
	svc := NewTaskService(taskStore, userStore, scheduler, nil)
	svc.now = func() time.Time { return testNow }
	return svc, taskStore, userStore, scheduler
}

func seedTask(
	t *testing.T,
	s *fakeTaskStore,
	owner uuid.UUID,
	title string,
	priority domain.Priority,
	due time.Time,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, title, priority, due)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func seedOwner(t *testing.T, s *fakeUserStore) uuid.UUID {
	t.Helper()
	user, err := domain.NewUser("frank", "frank@example.com", "password123", "+11234567890", "US")
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	user.Password = ""
	require.NoError(t, s.Create(context.Background(), user))
	return user.ID
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestListTasksDefaultWindow(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	// Five tasks spread over ten days; only the first three fall inside
	// the default seven-day window.
	for i, day := range []int{0, 3, 7, 8, 10} {
		seedTask(t, taskStore, owner,
			[]string{"today", "midweek", "boundary", "eighth", "tenth"}[i],
			domain.PriorityMedium,
			testNow.Add(time.Duration(day)*24*time.Hour))
	}

	tasks, err := svc.ListTasks(ctx, owner, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "midweek", "boundary"}, titles(tasks))
}

func TestListTasksExplicitWindow(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "early", domain.PriorityMedium, testNow.Add(24*time.Hour))
	seedTask(t, taskStore, owner, "late", domain.PriorityMedium, testNow.Add(9*24*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{
		StartDate: "2025-06-08",
		EndDate:   "2025-06-12",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, titles(tasks))
}

func TestListTasksInvertedWindowIsEmpty(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "today", domain.PriorityMedium, testNow.Add(time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{
		StartDate: "2025-06-10",
		EndDate:   "2025-06-01",
	})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksUnparseableDatesFallBackToDefault(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "in window", domain.PriorityMedium, testNow.Add(48*time.Hour))
	seedTask(t, taskStore, owner, "out of window", domain.PriorityMedium, testNow.Add(20*24*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{
		StartDate: "06/01/2025",
		EndDate:   "2025-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"in window"}, titles(tasks))
}

func TestListTasksSearchRanking(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "Report A", domain.PriorityHigh, testNow.Add(24*time.Hour))
	seedTask(t, taskStore, owner, "Report B Report", domain.PriorityLow, testNow.Add(48*time.Hour))
	seedTask(t, taskStore, owner, "Other", domain.PriorityHigh, testNow.Add(72*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{Search: "report"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Report B Report", "Report A"}, titles(tasks))
}

func TestListTasksSearchTieBreaksOnPriority(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "review notes", domain.PriorityLow, testNow.Add(24*time.Hour))
	seedTask(t, taskStore, owner, "review slides", domain.PriorityHigh, testNow.Add(48*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{Search: "review"})
	require.NoError(t, err)
	assert.Equal(t, []string{"review slides", "review notes"}, titles(tasks))
}

func TestListTasksSearchIgnoresStatusFilter(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	done := seedTask(t, taskStore, owner, "groceries", domain.PriorityMedium, testNow.Add(24*time.Hour))
	require.NoError(t, taskStore.SetCompleted(ctx, owner, done.ID, true))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{
		Search: "groceries",
		Status: StatusUnfinished,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"groceries"}, titles(tasks))
}

func TestListTasksBlankSearchMeansNoSearch(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	done := seedTask(t, taskStore, owner, "done", domain.PriorityMedium, testNow.Add(24*time.Hour))
	require.NoError(t, taskStore.SetCompleted(ctx, owner, done.ID, true))
	seedTask(t, taskStore, owner, "open", domain.PriorityMedium, testNow.Add(48*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{
		Search: "   ",
		Status: StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, titles(tasks))
}

func TestListTasksStatusFilters(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	done := seedTask(t, taskStore, owner, "done", domain.PriorityMedium, testNow.Add(24*time.Hour))
	require.NoError(t, taskStore.SetCompleted(ctx, owner, done.ID, true))
	seedTask(t, taskStore, owner, "open", domain.PriorityMedium, testNow.Add(48*time.Hour))

	completed, err := svc.ListTasks(ctx, owner, ListParams{Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, titles(completed))

	unfinished, err := svc.ListTasks(ctx, owner, ListParams{Status: StatusUnfinished})
	require.NoError(t, err)
	assert.Equal(t, []string{"open"}, titles(unfinished))

	all, err := svc.ListTasks(ctx, owner, ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListTasksExpiringStatus(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "soon", domain.PriorityMedium, testNow.Add(3*24*time.Hour))
	done := seedTask(t, taskStore, owner, "soon but done", domain.PriorityMedium, testNow.Add(3*24*time.Hour))
	require.NoError(t, taskStore.SetCompleted(ctx, owner, done.ID, true))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{Status: StatusExpiring})
	require.NoError(t, err)
	assert.Equal(t, []string{"soon"}, titles(tasks))
}

func TestListTasksExpiringStatusHorizonBoundary(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	// Both tasks fall inside the explicit window; only the first is
	// within the 7-day expiring horizon.
	seedTask(t, taskStore, owner, "at horizon", domain.PriorityMedium, testNow.Add(domain.ExpiringWindow))
	seedTask(t, taskStore, owner, "just outside", domain.PriorityMedium, testNow.Add(domain.ExpiringWindow+12*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-09",
		Status:    StatusExpiring,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"at horizon"}, titles(tasks))
}

func TestListTasksScopedToOwner(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "mine", domain.PriorityMedium, testNow.Add(24*time.Hour))
	seedTask(t, taskStore, uuid.New(), "theirs", domain.PriorityMedium, testNow.Add(24*time.Hour))

	tasks, err := svc.ListTasks(ctx, owner, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, titles(tasks))
}

func TestListExpiring(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	seedTask(t, taskStore, owner, "soon", domain.PriorityMedium, testNow.Add(2*24*time.Hour))
	seedTask(t, taskStore, owner, "far", domain.PriorityMedium, testNow.Add(10*24*time.Hour))
	seedTask(t, taskStore, owner, "overdue", domain.PriorityMedium, testNow.Add(-time.Hour))

	tasks, err := svc.ListExpiring(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"soon"}, titles(tasks))
}

func TestCreateTaskSchedulesReminder(t *testing.T) {
	svc, _, userStore, scheduler := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, owner, CreateTaskParams{
		Title:   "Water plants",
		DueDate: testNow.Add(5 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, task.Priority)

	require.Len(t, scheduler.tasks, 1)
	assert.Equal(t, task.ID, scheduler.tasks[0].ID)
	assert.Equal(t, "frank@example.com", scheduler.recipients[0])
}

func TestCreateTaskReminderFailureIsNotFatal(t *testing.T) {
	svc, taskStore, userStore, scheduler := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	scheduler.err = errors.New("queue unavailable")
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, owner, CreateTaskParams{
		Title:   "Water plants",
		DueDate: testNow.Add(5 * time.Hour),
	})
	require.NoError(t, err)

	stored, err := taskStore.GetByID(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Water plants", stored.Title)
}

func TestCreateTaskRejectsInvertedDates(t *testing.T) {
	svc, _, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	start := testNow.Add(10 * time.Hour)

	_, err := svc.CreateTask(context.Background(), owner, CreateTaskParams{
		Title:     "Water plants",
		StartDate: &start,
		DueDate:   testNow.Add(5 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateTaskRejectsInvalidInput(t *testing.T) {
	svc, _, userStore, scheduler := newTestTaskService(t)
	owner := seedOwner(t, userStore)

	_, err := svc.CreateTask(context.Background(), owner, CreateTaskParams{
		Title:   "",
		DueDate: testNow.Add(5 * time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, scheduler.tasks)
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	task := seedTask(t, taskStore, owner, "done twice", domain.PriorityMedium, testNow.Add(24*time.Hour))
	require.NoError(t, svc.CompleteTask(ctx, owner, task.ID))
	require.NoError(t, svc.CompleteTask(ctx, owner, task.ID))

	stored, err := taskStore.GetByID(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
}

func TestDeleteTaskScopedToOwner(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	other := uuid.New()
	task := seedTask(t, taskStore, other, "theirs", domain.PriorityMedium, testNow.Add(24*time.Hour))

	err := svc.DeleteTask(ctx, owner, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestCalendarEvents(t *testing.T) {
	svc, taskStore, userStore, _ := newTestTaskService(t)
	owner := seedOwner(t, userStore)
	ctx := context.Background()

	due := time.Date(2025, 6, 3, 14, 30, 0, 0, time.UTC)
	done := seedTask(t, taskStore, owner, "done", domain.PriorityMedium, due)
	require.NoError(t, taskStore.SetCompleted(ctx, owner, done.ID, true))
	seedTask(t, taskStore, owner, "open", domain.PriorityMedium, due.Add(24*time.Hour))

	events, err := svc.CalendarEvents(ctx, owner)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, CalendarEvent{Title: "done", Start: "2025-06-03T14:30:00", Color: "green"}, events[0])
	assert.Equal(t, "orange", events[1].Color)
}
