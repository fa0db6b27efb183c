package models

import "time"

// ChatMessage is one line of a user's conversation with the farming assistant.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"isBot"`
	UserID    int64     `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// OwnerID returns the user the conversation belongs to.
func (m *ChatMessage) OwnerID() int64 { return m.UserID }
