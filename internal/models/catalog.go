package models

import "time"

// CatalogItem is an Animal or a Crop. Both tables share this shape.
type CatalogItem struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"-"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Category  string    `json:"category"`
	VideoURL  string    `json:"videoUrl"`
	QuizID    *int64    `json:"quizId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
