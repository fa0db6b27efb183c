package models

import "time"

// Video is an educational video shown on the animal or crop tabs.
type Video struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	YoutubeID string    `json:"youtubeId"`
	Type      Kind      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdditionalVideo is a follow-up clip attached to a Video.
type AdditionalVideo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	YoutubeID string    `json:"youtubeId"`
	VideoID   int64     `json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
