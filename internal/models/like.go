package models

import "time"

// ContentType names what a Like points at.
type ContentType string

const (
	ContentQuestion ContentType = "question"
	ContentReply    ContentType = "reply"
)

// ContentTypes lists every likeable content type.
func ContentTypes() []ContentType {
	return []ContentType{ContentQuestion, ContentReply}
}

// Like is one row of the likes junction table.
type Like struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	ContentType ContentType `json:"contentType"`
	ContentID   int64       `json:"contentId"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// LikeUser is the identity shown next to a like.
type LikeUser struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// LikeWithUser is a Like joined with its author.
type LikeWithUser struct {
	Like
	User LikeUser `json:"user"`
}

// LikeState is what a client needs to render a like button.
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"likesCount"`
}
