// Package media issues upload URLs for the media bucket and schedules
// deletion of objects that catalogue rows stop referencing.
package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/farmwise/backend/pkg/queue"
)

// KeyResolver maps a public URL back to a media bucket key.
type KeyResolver interface {
	KeyFromURL(u string) (string, bool)
}

// Enqueuer schedules media cleanup jobs.
type Enqueuer interface {
	EnqueueMediaCleanup(ctx context.Context, payload queue.MediaCleanupPayload) error
}

// Cleaner enqueues a media_cleanup job for URLs that live in the media bucket.
// A nil Cleaner, or one built without a bucket or queue, does nothing.
type Cleaner struct {
	keys   KeyResolver
	jobs   Enqueuer
	logger *zap.Logger
}

// NewCleaner creates a Cleaner.
func NewCleaner(keys KeyResolver, jobs Enqueuer, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{keys: keys, jobs: jobs, logger: logger}
}

// Release schedules deletion of the object behind url. Failures are logged; the
// caller's write has already succeeded and an orphaned object is harmless.
func (c *Cleaner) Release(ctx context.Context, url, reason string) {
	if c == nil || c.keys == nil || c.jobs == nil {
		return
	}
	key, ok := c.keys.KeyFromURL(url)
	if !ok {
		return
	}
	if err := c.jobs.EnqueueMediaCleanup(ctx, queue.MediaCleanupPayload{Key: key, URL: url, Reason: reason}); err != nil {
		c.logger.Warn("enqueue media cleanup", zap.Error(err), zap.String("key", key))
	}
}
