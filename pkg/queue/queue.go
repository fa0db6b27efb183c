package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueMedia is the Redis list key for media jobs.
	QueueMedia = "worker:media"
	// QueueDLQ is the dead-letter queue for failed jobs after retries.
	QueueDLQ = "worker:dlq"
	// MaxRetries is the number of attempts before a job moves to the DLQ.
	MaxRetries = 3
	// RetryBackoff is the delay between retries.
	RetryBackoff = 10 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeMediaCleanup JobType = "media_cleanup"
)

// MediaCleanupPayload names a media object that is no longer referenced.
// URL is the public address rows stored, used to re-check references before deleting.
type MediaCleanupPayload struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewJob wraps payload in a fresh envelope.
func NewJob(t JobType, payload interface{}) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Job{
		ID:        uuid.New().String(),
		Type:      t,
		Payload:   body,
		CreatedAt: time.Now(),
	}, nil
}

// retryTarget returns the list a failed job goes to after its attempt counter is bumped.
func retryTarget(job *Job) string {
	if job.Attempt >= MaxRetries {
		return QueueDLQ
	}
	return QueueMedia
}

// Queue enqueues and dequeues jobs via Redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates a new Redis-backed job queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

func (q *Queue) push(ctx context.Context, key string, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}

// EnqueueMediaCleanup enqueues deletion of an unreferenced media object.
func (q *Queue) EnqueueMediaCleanup(ctx context.Context, payload MediaCleanupPayload) error {
	job, err := NewJob(JobTypeMediaCleanup, payload)
	if err != nil {
		return err
	}
	if err := q.push(ctx, QueueMedia, job); err != nil {
		return err
	}
	q.logger.Debug("enqueued media cleanup job", zap.String("job_id", job.ID), zap.String("key", payload.Key))
	return nil
}

// Dequeue blocks until a job is available or ctx is done. Returns job and key (queue name).
// Malformed entries are logged and skipped with a nil job.
func (q *Queue) Dequeue(ctx context.Context) (*Job, string, error) {
	result, err := q.client.BLPop(ctx, 0, QueueMedia).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", err
	}
	if len(result) < 2 {
		return nil, "", nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, "", nil
	}
	return &job, result[0], nil
}

// Retry re-enqueues a job with incremented attempt. Once attempt reaches MaxRetries it goes to the DLQ.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	target := retryTarget(job)
	if err := q.push(ctx, target, job); err != nil {
		q.logger.Error("retry push failed", zap.Error(err), zap.String("job_id", job.ID), zap.String("queue", target))
		return err
	}
	if target == QueueDLQ {
		q.logger.Warn("job moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return nil
	}
	q.logger.Info("job retried", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}
