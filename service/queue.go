package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Queue is a durable at-least-once work channel on top of a Redis list.
// A dequeued job moves into a per-queue processing list and stays there
// until it's acked, so a crashed consumer leaves it behind for Reclaim
// to pick up on the next start.
type Queue struct {
	Client      *redis.Client
	Name        string
	MaxAttempts int
	Backoff     time.Duration
}

func NewQueue(client *redis.Client, name string) *Queue {
	maxAttempts := viper.GetInt("queue.max_attempts")
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	backoff := viper.GetDuration("queue.retry_backoff")
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &Queue{
		Client:      client,
		Name:        name,
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
	}
}

func (q *Queue) processingKey() string {
	return q.Name + ":processing"
}

func (q *Queue) Enqueue(ctx context.Context, j *Job) error {
	raw, err := j.encode()
	if err != nil {
		return err
	}

	err = q.Client.LPush(ctx, q.Name, raw).Err()
	if err != nil {
		return err
	}

	zap.L().Debug("Job enqueued",
		zap.String("queue", q.Name),
		zap.String("file_id", j.FileID),
		zap.String("user_id", j.UserID))

	return nil
}

// Dequeue blocks up to timeout for the next job and hands it to exactly
// one caller. A nil job means the timeout elapsed. The raw payload must
// be passed back to Ack or Nack once the job is handled.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, string, error) {
	raw, err := q.Client.BRPopLPush(ctx, q.Name, q.processingKey(), timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	j, err := decodeJob(raw)
	if err != nil {
		// Nothing can ever run this payload, drop it
		q.Client.LRem(ctx, q.processingKey(), 1, raw)
		return nil, "", err
	}

	return j, raw, nil
}

// Ack removes a handled job from the processing list
func (q *Queue) Ack(ctx context.Context, raw string) error {
	return q.Client.LRem(ctx, q.processingKey(), 1, raw).Err()
}

// Nack records a failed delivery. The job is re-queued with an
// exponential backoff until MaxAttempts is exhausted, after which it's
// dropped. Permanent and transient failures are retried the same way.
func (q *Queue) Nack(ctx context.Context, raw string, j *Job, cause error) error {
	j.Attempts++

	if j.Attempts >= q.MaxAttempts {
		zap.L().Error("Job failed permanently",
			zap.String("queue", q.Name),
			zap.String("file_id", j.FileID),
			zap.String("user_id", j.UserID),
			zap.Int("attempts", j.Attempts),
			zap.Error(cause))

		return q.Ack(ctx, raw)
	}

	zap.L().Warn("Job failed, retrying",
		zap.String("queue", q.Name),
		zap.String("file_id", j.FileID),
		zap.String("user_id", j.UserID),
		zap.Int("attempt", j.Attempts),
		zap.Error(cause))

	time.Sleep(q.Backoff << (j.Attempts - 1))

	next, err := j.encode()
	if err != nil {
		return err
	}

	// Push the retry before dropping the old entry so a crash in
	// between duplicates the job instead of losing it
	if err := q.Client.LPush(ctx, q.Name, next).Err(); err != nil {
		return err
	}

	return q.Ack(ctx, raw)
}

// Reclaim moves jobs a dead consumer left in the processing list back
// onto the queue. Called once on worker startup.
func (q *Queue) Reclaim(ctx context.Context) (int, error) {
	var n int
	for {
		_, err := q.Client.RPopLPush(ctx, q.processingKey(), q.Name).Result()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
