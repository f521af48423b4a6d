package service

import (
	"context"
	"time"

	"studytrack/internal/repository"
)

const pingTimeout = time.Second

type HealthService struct {
	db repository.Pinger
}

func NewHealthService(db repository.Pinger) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}
