package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studytrack/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, username`
	selectUserByUsernameSQL = `SELECT id, username, password_hash FROM users WHERE username = $1`
)

// Create inserts a new user. A taken username yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, insertUserSQL, username, passwordHash).Scan(&u.ID, &u.Username)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("insert user %q: %w", username, ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("insert user %q: %w", username, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
