package likes

import (
	"context"
	"strconv"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

// Target is the content a like points at: a question or a reply.
type Target struct {
	Type models.ContentType
	ID   int64
}

// QuestionTarget addresses a QuestionAndAnswer.
func QuestionTarget(id int64) Target { return Target{Type: models.ContentQuestion, ID: id} }

// ReplyTarget addresses a Reply.
func ReplyTarget(id int64) Target { return Target{Type: models.ContentReply, ID: id} }

// ParseTarget builds a Target from wire values.
func ParseTarget(contentType string, contentID int64) (Target, error) {
	t := Target{Type: models.ContentType(contentType), ID: contentID}
	switch t.Type {
	case models.ContentQuestion, models.ContentReply:
	default:
		return Target{}, apperr.BadRequest("contentType must be question or reply")
	}
	if contentID <= 0 {
		return Target{}, apperr.BadRequest("invalid content id")
	}
	return t, nil
}

// ParseTargetParams is ParseTarget for path parameters.
func ParseTargetParams(contentType, contentID string) (Target, error) {
	id, err := strconv.ParseInt(contentID, 10, 64)
	if err != nil {
		return Target{}, apperr.BadRequest("invalid content id")
	}
	return ParseTarget(contentType, id)
}

// Resolver confirms a target exists and returns the video it is discussed under.
// It returns apperr.NotFound for missing content.
type Resolver func(ctx context.Context, id int64) (videoID int64, err error)
