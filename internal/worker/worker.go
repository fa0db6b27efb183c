// Package worker runs background media jobs pulled from the Redis queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/farmwise/backend/pkg/queue"
)

// JobSource is the queue the processor consumes.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, string, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// ObjectDeleter removes media bucket objects.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// ReferenceChecker reports whether a media URL is still referenced.
type ReferenceChecker interface {
	InUse(ctx context.Context, url string) (bool, error)
}

// MediaCleanupProcessor deletes S3 objects that catalogue rows no longer reference.
type MediaCleanupProcessor struct {
	jobs    JobSource
	objects ObjectDeleter
	refs    ReferenceChecker
	backoff time.Duration
	logger  *zap.Logger
}

// NewMediaCleanupProcessor creates a media cleanup processor. refs may be nil to skip the reference check.
func NewMediaCleanupProcessor(jobs JobSource, objects ObjectDeleter, refs ReferenceChecker, logger *zap.Logger) *MediaCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaCleanupProcessor{jobs: jobs, objects: objects, refs: refs, backoff: queue.RetryBackoff, logger: logger}
}

// Process executes one media cleanup job.
func (p *MediaCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeMediaCleanup {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.MediaCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.Key == "" {
		return fmt.Errorf("media cleanup job %s has no key", job.ID)
	}

	if p.refs != nil && payload.URL != "" {
		used, err := p.refs.InUse(ctx, payload.URL)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if used {
			p.logger.Info("media still referenced, keeping", zap.String("key", payload.Key))
			return nil
		}
	}

	if err := p.objects.DeleteObject(ctx, payload.Key); err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	p.logger.Info("media object deleted", zap.String("key", payload.Key), zap.String("reason", payload.Reason))
	return nil
}

// handle processes a job and re-enqueues it on failure. It returns false when the
// caller should back off.
func (p *MediaCleanupProcessor) handle(ctx context.Context, job *queue.Job) bool {
	p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	if err := p.Process(ctx, job); err != nil {
		p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
		if reErr := p.jobs.Retry(ctx, job); reErr != nil {
			p.logger.Error("retry enqueue failed", zap.Error(reErr))
		}
		return false
	}
	return true
}

// Run starts the worker loop: dequeue, process, retry on error. It returns when ctx is cancelled.
func (p *MediaCleanupProcessor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			p.logger.Info("media worker stopping")
			return
		}

		job, _, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Warn("dequeue error", zap.Error(err))
				p.sleep(ctx)
			}
			continue
		}
		if job == nil {
			continue
		}
		if !p.handle(ctx, job) {
			p.sleep(ctx)
		}
	}
}

func (p *MediaCleanupProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
