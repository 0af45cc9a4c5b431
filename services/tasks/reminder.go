package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetbooking/models"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "booking:reminder"

// ReminderScheduler queues a reminder to fire at a given instant.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(3),
	}
	if payload.BookingID != "" {
		// One reminder per booking even if enqueue is retried.
		opts = append(opts, asynq.TaskID("reminder:"+payload.BookingID))
	}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues reminders on the asynq Redis queue.
type AsynqReminderScheduler struct {
	client *asynq.Client
}

func NewAsynqReminderScheduler(opt asynq.RedisConnOpt) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{client: asynq.NewClient(opt)}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

func (s *AsynqReminderScheduler) Close() error {
	return s.client.Close()
}
