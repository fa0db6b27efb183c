// Package stock keeps a farmer's inventory of feed, seed and supplies.
package stock

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

// Repository persists stock items.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a stock repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const stockColumns = `id, user_id, name, category, quantity, unit, notes, created_at, updated_at`

func scanItem(row pgx.Row) (*models.StockItem, error) {
	var s models.StockItem
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Category, &s.Quantity, &s.Unit, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("stock item not found")
		}
		return nil, err
	}
	return &s, nil
}

// ListByUser returns a user's items ordered by name.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.StockItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE user_id = $1 ORDER BY name, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.StockItem{}
	for rows.Next() {
		s, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// GetByID returns an item.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.StockItem, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE id = $1`, id))
}

// Create inserts an item.
func (r *Repository) Create(ctx context.Context, s *models.StockItem) error {
	return r.pool.QueryRow(ctx, `INSERT INTO stock_items (user_id, name, category, quantity, unit, notes)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`,
		s.UserID, s.Name, s.Category, s.Quantity, s.Unit, s.Notes).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update writes every mutable column.
func (r *Repository) Update(ctx context.Context, s *models.StockItem) error {
	err := r.pool.QueryRow(ctx, `UPDATE stock_items SET name = $1, category = $2, quantity = $3, unit = $4, notes = $5,
		updated_at = NOW() WHERE id = $6 RETURNING updated_at`,
		s.Name, s.Category, s.Quantity, s.Unit, s.Notes, s.ID).Scan(&s.UpdatedAt)
	if database.IsNoRows(err) {
		return apperr.NotFound("stock item not found")
	}
	return err
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("stock item not found")
	}
	return nil
}
