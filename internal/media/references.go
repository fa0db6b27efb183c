package media

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// References answers whether any row still points at a media URL.
type References struct {
	pool *pgxpool.Pool
}

// NewReferences creates a reference checker.
func NewReferences(pool *pgxpool.Pool) *References {
	return &References{pool: pool}
}

// InUse reports whether an animal, crop, question, reply or user profile still uses url.
func (r *References) InUse(ctx context.Context, url string) (bool, error) {
	var used bool
	err := r.pool.QueryRow(ctx, `SELECT
		EXISTS (SELECT 1 FROM animals WHERE icon = $1) OR
		EXISTS (SELECT 1 FROM crops WHERE icon = $1) OR
		EXISTS (SELECT 1 FROM question_and_answers WHERE author_image = $1) OR
		EXISTS (SELECT 1 FROM replies WHERE author_image = $1) OR
		EXISTS (SELECT 1 FROM users WHERE profile_picture = $1)`, url).Scan(&used)
	return used, err
}
