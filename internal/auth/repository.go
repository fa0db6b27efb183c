package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, email, password_hash, profile_picture, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ProfilePicture, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email (case-insensitive).
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

// List returns all users for the admin dashboard.
func (r *Repository) List(ctx context.Context) ([]models.UserPublic, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, username, email, profile_picture, role, created_at
		FROM users ORDER BY username, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.UserPublic{}
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.ProfilePicture, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a new user. A duplicate email is reported as a Conflict.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	const q = `INSERT INTO users (username, email, password_hash, profile_picture, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, u.Username, u.Email, u.Password, u.ProfilePicture, u.Role).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("email already registered")
	}
	return err
}
