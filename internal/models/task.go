package models

// Task is a single to-do item owned by one user.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"user_id"`
}
