package models

import "time"

// UserProgress is a user's best result on a quiz.
type UserProgress struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	QuizID    int64     `json:"quizId"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
