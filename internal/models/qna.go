package models

import "time"

// QuestionAndAnswer is a question posted under a video.
// Likes is derived from the likes table.
type QuestionAndAnswer struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	AuthorName  string    `json:"authorName"`
	AuthorImage string    `json:"authorImage"`
	Timestamp   time.Time `json:"timestamp"`
	Likes       int64     `json:"likes"`
	VideoID     int64     `json:"videoId"`
	UserID      int64     `json:"userId"`
}

// OwnerID returns the author.
func (q *QuestionAndAnswer) OwnerID() int64 { return q.UserID }

// Reply answers a QuestionAndAnswer. LikesIsClicked is whether the viewing
// user has liked it; both like fields are derived from the likes table.
type Reply struct {
	ID                  int64     `json:"id"`
	Text                string    `json:"text"`
	AuthorName          string    `json:"authorName"`
	AuthorImage         string    `json:"authorImage"`
	Timestamp           time.Time `json:"timestamp"`
	Likes               int64     `json:"likes"`
	LikesIsClicked      bool      `json:"likesisClicked"`
	QuestionAndAnswerID int64     `json:"questionAndAnswerId"`
	UserID              int64     `json:"userId"`
}

// OwnerID returns the author.
func (r *Reply) OwnerID() int64 { return r.UserID }
