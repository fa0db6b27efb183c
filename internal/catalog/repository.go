// Package catalog serves the animal and crop catalogues. Both share one
// table shape; a Repository and Handler are bound to a single models.Kind.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

var tables = map[models.Kind]string{
	models.KindAnimal: "animals",
	models.KindCrop:   "crops",
}

// Repository handles persistence for one catalogue table.
type Repository struct {
	pool  *pgxpool.Pool
	kind  models.Kind
	table string
}

// NewRepository creates a repository for the animals or crops table.
func NewRepository(pool *pgxpool.Pool, kind models.Kind) (*Repository, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown kind %q", kind)
	}
	return &Repository{pool: pool, kind: kind, table: table}, nil
}

const itemColumns = `id, name, icon, category, video_url, quiz_id, created_at, updated_at`

func (r *Repository) scan(row pgx.Row) (*models.CatalogItem, error) {
	it := models.CatalogItem{Kind: r.kind}
	if err := row.Scan(&it.ID, &it.Name, &it.Icon, &it.Category, &it.VideoURL, &it.QuizID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound(string(r.kind) + " not found")
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repository) query(ctx context.Context, where string, args ...any) ([]models.CatalogItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM `+r.table+` `+where+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()
	list := []models.CatalogItem{}
	for rows.Next() {
		it, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *it)
	}
	return list, rows.Err()
}

// List returns every entry ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.CatalogItem, error) {
	return r.query(ctx, "")
}

// ListByCategory returns entries in a category.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]models.CatalogItem, error) {
	return r.query(ctx, `WHERE category = $1`, category)
}

// Search matches name or category case-insensitively.
func (r *Repository) Search(ctx context.Context, q string) ([]models.CatalogItem, error) {
	return r.query(ctx, `WHERE name ILIKE $1 OR category ILIKE $1`, database.ContainsPattern(q))
}

// GetByID returns one entry.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM `+r.table+` WHERE id = $1`, id))
}

// Create inserts an entry.
func (r *Repository) Create(ctx context.Context, it *models.CatalogItem) error {
	q := `INSERT INTO ` + r.table + ` (name, icon, category, video_url, quiz_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	it.Kind = r.kind
	return r.pool.QueryRow(ctx, q, it.Name, it.Icon, it.Category, it.VideoURL, it.QuizID).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

// Update writes every mutable column.
func (r *Repository) Update(ctx context.Context, it *models.CatalogItem) error {
	q := `UPDATE ` + r.table + ` SET name = $1, icon = $2, category = $3, video_url = $4, quiz_id = $5, updated_at = NOW()
		WHERE id = $6 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, it.Name, it.Icon, it.Category, it.VideoURL, it.QuizID, it.ID).Scan(&it.UpdatedAt)
	if database.IsNoRows(err) {
		return apperr.NotFound(string(r.kind) + " not found")
	}
	return err
}

// Delete removes an entry.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(string(r.kind) + " not found")
	}
	return nil
}
