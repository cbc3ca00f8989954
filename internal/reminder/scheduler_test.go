package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmilford/taskward/internal/domain"
)

// fakeDispatcher records enqueued messages and their fire times.
type fakeDispatcher struct {
	messages []Message
	fireAts  []time.Time
	err      error
}

func (d *fakeDispatcher) Enqueue(_ context.Context, msg Message, fireAt time.Time) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.messages = append(d.messages, msg)
	d.fireAts = append(d.fireAts, fireAt)
	return uuid.NewString(), nil
}

func newTestTask(t *testing.T, due time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(uuid.New(), "File expense report", domain.PriorityMedium, due)
	require.NoError(t, err)
	return task
}

func TestScheduleFiresTwoHoursBeforeDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dispatcher := &fakeDispatcher{}
	s := NewScheduler(dispatcher, nil)
	s.now = func() time.Time { return now }

	task := newTestTask(t, now.Add(3*time.Hour))
	require.NoError(t, s.Schedule(context.Background(), task, "frank@example.com"))

	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, now.Add(time.Hour), dispatcher.fireAts[0])

	msg := dispatcher.messages[0]
	assert.Equal(t, "frank@example.com", msg.Recipient)
	assert.Equal(t, "Task reminder: File expense report", msg.Subject)
	assert.Contains(t, msg.Body, "File expense report")
	assert.Contains(t, msg.Body, task.DueDate.Format("2006-01-02 15:04"))
}

func TestScheduleSkipsPastWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dispatcher := &fakeDispatcher{}
	s := NewScheduler(dispatcher, nil)
	s.now = func() time.Time { return now }

	// Due in 1 hour: fire_at would be an hour in the past.
	task := newTestTask(t, now.Add(time.Hour))
	require.NoError(t, s.Schedule(context.Background(), task, "frank@example.com"))
	assert.Empty(t, dispatcher.messages)

	// Exactly at the boundary: fire_at == now is not in the future.
	task = newTestTask(t, now.Add(2*time.Hour))
	require.NoError(t, s.Schedule(context.Background(), task, "frank@example.com"))
	assert.Empty(t, dispatcher.messages)
}

func TestScheduleTwiceSchedulesTwoReminders(t *testing.T) {
	now := time.Now().UTC()
	dispatcher := &fakeDispatcher{}
	s := NewScheduler(dispatcher, nil)
	s.now = func() time.Time { return now }

	task := newTestTask(t, now.Add(5*time.Hour))
	require.NoError(t, s.Schedule(context.Background(), task, "frank@example.com"))
	require.NoError(t, s.Schedule(context.Background(), task, "frank@example.com"))
	assert.Len(t, dispatcher.messages, 2)
}

func TestScheduleEnqueueFailure(t *testing.T) {
	now := time.Now().UTC()
	dispatcher := &fakeDispatcher{err: errors.New("queue unavailable")}
	s := NewScheduler(dispatcher, nil)
	s.now = func() time.Time { return now }

	task := newTestTask(t, now.Add(5*time.Hour))
	err := s.Schedule(context.Background(), task, "frank@example.com")
	assert.Error(t, err)
}
