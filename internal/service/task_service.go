package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studytrack/internal/models"
	"studytrack/internal/repository"
)

type TaskService struct {
	taskRepo repository.TaskRepo
}

func NewTaskService(taskRepo repository.TaskRepo) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// List returns the user's tasks in ascending id order.
func (s *TaskService) List(ctx context.Context, userID int64) ([]models.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

// Create stores a new, not yet completed task.
func (s *TaskService) Create(ctx context.Context, userID int64, text string) (models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return models.Task{}, fmt.Errorf("%w: text is required", ErrValidation)
	}
	return s.taskRepo.Create(ctx, userID, text)
}

// SetCompleted changes only the completed flag of one of the user's tasks.
func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID int64, completed bool) (models.Task, error) {
	t, err := s.taskRepo.SetCompleted(ctx, userID, taskID, completed)
	if err != nil {
		return models.Task{}, notFoundOr(err, taskID)
	}
	return t, nil
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return notFoundOr(err, taskID)
	}
	return nil
}

// notFoundOr translates the repository miss into ErrTaskNotFound and keeps other errors.
func notFoundOr(err error, taskID int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
	}
	return err
}
