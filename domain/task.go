package domain

import "time"

// Task status values. The status column is an integer: 1 while the task is
// open, 0 once it has been marked complete. Completed tasks never reopen.
const (
	StatusOpen   = 1
	StatusClosed = 0
)

// Task represents a single to-do item owned by exactly one user.
type Task struct {
	ID         int64     `json:"task_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	DueDate    time.Time `json:"due_date"`
	Priority   int       `json:"priority"`
	Status     int       `json:"status"`
	PostedDate time.Time `json:"posted_date"`
}

func (t *Task) IsOpen() bool {
	return t != nil && t.Status == StatusOpen
}

// OwnedBy reports whether the task belongs to the given user.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}
