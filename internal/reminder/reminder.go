// Package reminder schedules one-shot email reminders ahead of task
// deadlines. The actual timed firing happens in a dispatch facility
// (a delayed queue plus worker) outside the request lifetime.
package reminder

import (
	"context"
	"time"
)

// Message is a deliverable unit of work: a rendered reminder email.
type Message struct {
	// ID uniquely identifies the scheduled job.
	ID string `json:"id"`

	// Subject is the rendered email subject line.
	Subject string `json:"subject"`

	// Body is the rendered email body.
	Body string `json:"body"`

	// Recipient is the owner's email address.
	Recipient string `json:"recipient"`
}

// Dispatcher accepts a payload and a future timestamp and guarantees
// at-least-once best-effort execution at or after that time. No ordering
// guarantee relative to other jobs, and no guarantee if the facility
// itself is unavailable.
type Dispatcher interface {
	// Enqueue schedules msg for delivery at fireAt and returns a job handle.
	Enqueue(ctx context.Context, msg Message, fireAt time.Time) (string, error)
}

// Mailer delivers a single email message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
