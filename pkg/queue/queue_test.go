package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobWrapsPayload(t *testing.T) {
	job, err := NewJob(JobTypeMediaCleanup, MediaCleanupPayload{Key: "icons/a.png", Reason: "animal deleted"})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 0, job.Attempt)

	var p MediaCleanupPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, "icons/a.png", p.Key)
}

func TestRetryTargetMovesToDLQAfterMaxRetries(t *testing.T) {
	job := &Job{}
	var targets []string
	for i := 0; i < MaxRetries; i++ {
		job.Attempt++
		targets = append(targets, retryTarget(job))
	}
	assert.Equal(t, []string{QueueMedia, QueueMedia, QueueDLQ}, targets)
}
