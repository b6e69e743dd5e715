package repository

import (
	"context"

	"github.com/taskline/backend/domain"
)

type TaskRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	// ListByOwner returns the owner's tasks with the given status, ordered
	// by due date ascending, ties broken by task id ascending.
	ListByOwner(ctx context.Context, userID string, status int) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	SetStatus(ctx context.Context, id int64, status int) error
	Delete(ctx context.Context, id int64) error
}
