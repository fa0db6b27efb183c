package videos

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/backend/pkg/apperr"
)

type execLog struct {
	stmts   []string
	deleted int64
	failAt  int
}

func (e *execLog) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	e.stmts = append(e.stmts, sql)
	if e.failAt == len(e.stmts) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	if len(e.stmts) == 3 && e.deleted == 0 {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func TestDeleteVideoRemovesLikesBeforeVideo(t *testing.T) {
	ex := &execLog{deleted: 1}
	require.NoError(t, deleteVideo(context.Background(), ex, 7))

	require.Len(t, ex.stmts, 3)
	assert.Contains(t, ex.stmts[0], "content_type = 'reply'")
	assert.Contains(t, ex.stmts[0], "q.video_id = $1")
	assert.Contains(t, ex.stmts[1], "content_type = 'question'")
	assert.Contains(t, ex.stmts[1], "WHERE video_id = $1")
	assert.Contains(t, ex.stmts[2], "DELETE FROM videos")
}

func TestDeleteVideoMissingAndFailures(t *testing.T) {
	err := deleteVideo(context.Background(), &execLog{}, 7)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	ex := &execLog{deleted: 1, failAt: 2}
	err = deleteVideo(context.Background(), ex, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete question likes")
	assert.Len(t, ex.stmts, 2)
}
