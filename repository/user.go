package repository

import (
	"context"

	"github.com/taskline/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	// Create persists a new user. A unique-constraint collision on name or
	// email surfaces as domain.ErrDuplicateUser.
	Create(ctx context.Context, user *domain.User) error
}
