package models

import "time"

// Quiz groups multiple-choice questions about animals or crops.
type Quiz struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Kind      `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// QuizQuestion is one four-option question of a Quiz.
type QuizQuestion struct {
	ID            int64     `json:"id"`
	QuizID        int64     `json:"quizId"`
	Question      string    `json:"question"`
	OptionA       string    `json:"optionA"`
	OptionB       string    `json:"optionB"`
	OptionC       string    `json:"optionC"`
	OptionD       string    `json:"optionD"`
	CorrectOption string    `json:"correctOption"`
	CreatedAt     time.Time `json:"createdAt"`
}
