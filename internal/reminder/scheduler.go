package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/platform/logger"
)

// dueTimeFormat is how the deadline is rendered inside the reminder body.
const dueTimeFormat = "2006-01-02 15:04"

// Scheduler computes reminder fire times for newly created tasks and
// enqueues the rendered email with the dispatch facility. It is invoked
// once, synchronously, right after a task is durably created.
//
// A reminder whose window has already passed is silently skipped. Nothing
// cancels or reschedules a job when its task is later deleted or its due
// date changes; a fired reminder may therefore reference a task that no
// longer exists.
type Scheduler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	now        func() time.Time // Injectable for testing
}

// NewScheduler creates a Scheduler using the given dispatch facility.
// If log is nil, a default logger will be used.
func NewScheduler(dispatcher Dispatcher, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		dispatcher: dispatcher,
		logger:     log.With(slog.String("component", "reminder_scheduler")),
		now:        time.Now,
	}
}

// Schedule enqueues a reminder for task to be delivered to recipient
// 2 hours before the task's deadline. If that instant is not in the
// future, the call is a no-op. Calling this twice for the same task
// schedules two reminders.
func (s *Scheduler) Schedule(ctx context.Context, task *domain.Task, recipient string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fireAt := task.ReminderTime()
	if !fireAt.After(s.now()) {
		log.Debug("reminder window already passed, skipping",
			slog.String("task_id", task.ID.String()),
			slog.Time("due_date", task.DueDate))
		return nil
	}

	msg := Message{
		Subject: fmt.Sprintf("Task reminder: %s", task.Title),
		Body: fmt.Sprintf(
			"Your task %q is due at %s. Please take care of it in time.",
			task.Title,
			task.DueDate.Format(dueTimeFormat),
		),
		Recipient: recipient,
	}

	jobID, err := s.dispatcher.Enqueue(ctx, msg, fireAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder for task %s: %w", task.ID, err)
	}

	log.Info("reminder scheduled",
		slog.String("task_id", task.ID.String()),
		slog.String("job_id", jobID),
		slog.Time("fire_at", fireAt))
	return nil
}
