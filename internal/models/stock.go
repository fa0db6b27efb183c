package models

import "time"

// StockItem is an inventory record kept by a farmer (feed, seed, fertiliser, ...).
type StockItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID returns the farmer who owns the record.
func (s *StockItem) OwnerID() int64 { return s.UserID }
