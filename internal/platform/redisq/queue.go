// Package redisq implements the reminder dispatch facility on a Redis
// sorted set: members are serialized messages scored by their fire time,
// and a polling worker delivers whatever has come due. Delivery is
// best-effort and at-least-once; a message is removed from the set when it
// is handed to the worker, and delivery failures are logged, not retried.
package redisq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jmilford/taskward/internal/platform/logger"
	"github.com/jmilford/taskward/internal/reminder"
)

// DefaultKey is the sorted set holding scheduled reminders.
const DefaultKey = "taskward:reminders:scheduled"

// Queue is a Redis-backed delayed message queue.
type Queue struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger
	now    func() time.Time // Injectable for testing
}

// NewQueue creates a Queue on the given Redis client using DefaultKey.
// If log is nil, a default logger will be used.
func NewQueue(client redis.UniversalClient, log *slog.Logger) *Queue {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Queue{
		client: client,
		key:    DefaultKey,
		logger: log.With(slog.String("component", "reminder_queue")),
		now:    time.Now,
	}
}

// Ensure Queue implements reminder.Dispatcher
var _ reminder.Dispatcher = (*Queue)(nil)

// Enqueue implements reminder.Dispatcher. The message is scored by its
// fire time in milliseconds; an empty ID is filled in and returned as the
// job handle.
func (q *Queue) Enqueue(ctx context.Context, msg reminder.Message, fireAt time.Time) (string, error) {
	log := logger.FromContextOrDefault(ctx, q.logger)

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	err = q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(fireAt.UnixMilli()),
		Member: payload,
	}).Err()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	log.Debug("reminder enqueued",
		slog.String("job_id", msg.ID),
		slog.Time("fire_at", fireAt))
	return msg.ID, nil
}

// PopDue removes and returns all messages whose fire time is at or before
// now. Corrupt members are dropped with a log line rather than wedging the
// queue.
func (q *Queue) PopDue(ctx context.Context) ([]reminder.Message, error) {
	log := logger.FromContextOrDefault(ctx, q.logger)

	max := strconv.FormatInt(q.now().UnixMilli(), 10)
	members, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read due reminders: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	var due []reminder.Message
	for _, member := range members {
		if err := q.client.ZRem(ctx, q.key, member).Err(); err != nil {
			return due, fmt.Errorf("failed to remove due reminder: %w", err)
		}

		var msg reminder.Message
		if err := json.Unmarshal([]byte(member), &msg); err != nil {
			log.Error("dropping malformed reminder payload",
				slog.String("error", err.Error()))
			continue
		}
		due = append(due, msg)
	}

	return due, nil
}

// Len returns the number of scheduled reminders, due or not.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.key).Result()
}
