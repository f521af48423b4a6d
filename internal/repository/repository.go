package repository

import (
	"context"
	"database/sql"

	"studytrack/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type TaskRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)
	Create(ctx context.Context, userID int64, text string) (models.Task, error)
	SetCompleted(ctx context.Context, userID, taskID int64, completed bool) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

// Pinger reports whether the store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Repository struct {
	Auth  Authorization
	Tasks TaskRepo
	DB    Pinger
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:  NewUserRepository(db),
		Tasks: NewTaskRepository(db),
		DB:    db,
	}
}
