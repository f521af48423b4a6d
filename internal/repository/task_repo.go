package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studytrack/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ TaskRepo = (*TaskRepository)(nil)

// Every statement is scoped by user_id; a task of another user behaves as missing.
const (
	selectTasksByUserSQL = `SELECT id, text, completed, user_id FROM tasks WHERE user_id = $1 ORDER BY id ASC`
	insertTaskSQL        = `INSERT INTO tasks (text, user_id) VALUES ($1, $2) RETURNING id, text, completed, user_id`
	updateTaskDoneSQL    = `UPDATE tasks SET completed = $1 WHERE id = $2 AND user_id = $3 RETURNING id, text, completed, user_id`
	deleteTaskSQL        = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
)

// ListByUser returns the user's tasks ordered by ascending id. Never returns a nil slice.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTasksByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select tasks of user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks of user %d: %w", userID, err)
	}
	return out, nil
}

// Create inserts a task and returns the stored row, including defaults.
func (r *TaskRepository) Create(ctx context.Context, userID int64, text string) (models.Task, error) {
	var t models.Task
	err := r.db.QueryRowContext(ctx, insertTaskSQL, text, userID).Scan(&t.ID, &t.Text, &t.Completed, &t.UserID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task for user %d: %w", userID, err)
	}
	return t, nil
}

// SetCompleted updates the completed flag. ErrNotFound if (taskID, userID) matches nothing.
func (r *TaskRepository) SetCompleted(ctx context.Context, userID, taskID int64, completed bool) (models.Task, error) {
	var t models.Task
	err := r.db.QueryRowContext(ctx, updateTaskDoneSQL, completed, taskID, userID).Scan(&t.ID, &t.Text, &t.Completed, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("update task %d: %w", taskID, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("update task %d: %w", taskID, err)
	}
	return t, nil
}

// Delete removes the task. ErrNotFound if (taskID, userID) matches nothing.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID int64) error {
	res, err := r.db.ExecContext(ctx, deleteTaskSQL, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for task %d: %w", taskID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete task %d: %w", taskID, ErrNotFound)
	}
	return nil
}
