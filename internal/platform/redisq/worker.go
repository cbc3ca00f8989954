package redisq

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmilford/taskward/internal/reminder"
)

// WorkerConfig holds configuration for the dispatch worker
type WorkerConfig struct {
	// PollInterval defines how often the queue is checked for due messages.
	// If zero, defaults to 15 seconds.
	PollInterval time.Duration
}

// DefaultWorkerConfig returns a WorkerConfig with reasonable defaults
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 15 * time.Second,
	}
}

// Worker polls the delayed queue and hands due messages to a Mailer.
// A delivery failure is logged and the message is not requeued; the
// queue guarantees at-least-once hand-off, not delivery.
type Worker struct {
	queue      *Queue
	mailer     reminder.Mailer
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     WorkerConfig
	logger     *slog.Logger
}

// NewWorker creates a Worker draining queue into mailer.
func NewWorker(queue *Queue, mailer reminder.Mailer, config WorkerConfig, log *slog.Logger) *Worker {
	if config.PollInterval == 0 {
		config.PollInterval = 15 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		queue:      queue,
		mailer:     mailer,
		ctx:        ctx,
		cancelFunc: cancel,
		wg:         sync.WaitGroup{},
		config:     config,
		logger:     log.With(slog.String("component", "reminder_worker")),
	}
}

// Start begins polling in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.poll()
}

// Stop cancels the polling loop and waits for it to exit.
func (w *Worker) Stop() {
	w.cancelFunc()
	w.wg.Wait()
}

// poll drains due messages once per tick until the worker is stopped.
func (w *Worker) poll() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.logger.Debug("starting reminder worker",
		slog.Duration("poll_interval", w.config.PollInterval))

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("stopping reminder worker")
			return

		case <-ticker.C:
			w.DeliverDue(w.ctx)
		}
	}
}

// DeliverDue pops everything due right now and delivers each message.
// Exported so a single pass can be driven directly in tests.
func (w *Worker) DeliverDue(ctx context.Context) {
	due, err := w.queue.PopDue(ctx)
	if err != nil {
		w.logger.Error("failed to poll reminder queue",
			slog.String("error", err.Error()))
		return
	}

	for _, msg := range due {
		log := w.logger.With(
			slog.String("job_id", msg.ID),
			slog.String("recipient", msg.Recipient))

		if err := w.mailer.Send(ctx, msg); err != nil {
			log.Error("reminder delivery failed",
				slog.String("error", err.Error()))
			continue
		}
		log.Info("reminder delivered")
	}
}
