package service

import (
	"context"
	"time"

	"studytrack/internal/models"
	"studytrack/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (models.User, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (models.Identity, error)
}

// Tasks exposes task CRUD scoped to the owner's user id.
type Tasks interface {
	List(ctx context.Context, userID int64) ([]models.Task, error)
	Create(ctx context.Context, userID int64, text string) (models.Task, error)
	SetCompleted(ctx context.Context, userID, taskID int64, completed bool) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

// Health reports whether the backing store answers.
type Health interface {
	Ping(ctx context.Context) error
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Tasks
	Health
}

// AuthConfig carries the token and hashing settings of the auth service.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
	BcryptCost int
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg),
		Tasks:         NewTaskService(repos.Tasks),
		Health:        NewHealthService(repos.DB),
	}
}
