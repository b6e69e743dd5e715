package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/repository"
	"github.com/taskline/backend/usecase"
)

// DueDateLayout is the boundary format for due dates.
const DueDateLayout = "01/02/2006"

const (
	minPriority = 1
	maxPriority = 10
)

type UseCase struct {
	tasks  repository.TaskRepository
	audit  usecase.AuditTrail
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, audit usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		audit:  audit,
		logger: logger,
	}
}

// Create validates the submitted fields and persists a new open task owned
// by userID. The posted date is set server-side.
func (uc *UseCase) Create(ctx context.Context, userID, name, dueDate string, priority int) (*domain.Task, error) {
	if name == "" {
		return nil, domain.NewValidation("Task name is required")
	}
	if dueDate == "" {
		return nil, domain.NewValidation("Due date is required")
	}
	due, err := time.Parse(DueDateLayout, dueDate)
	if err != nil {
		return nil, domain.NewValidation("Please enter date in mm/dd/yyyy format")
	}
	if priority < minPriority || priority > maxPriority {
		return nil, domain.NewValidation("Priority must be between 1 and 10")
	}

	task := &domain.Task{
		UserID:     userID,
		Name:       name,
		DueDate:    due,
		Priority:   priority,
		Status:     domain.StatusOpen,
		PostedDate: time.Now().UTC(),
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.ActionCreate, created)
	return created, nil
}

// Complete marks the task closed. Only the owner may complete a task.
// Completing an already-closed task or a missing task is a no-op.
func (uc *UseCase) Complete(ctx context.Context, userID string, taskID int64) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if !task.OwnedBy(userID) {
		return domain.ErrNotOwner
	}

	if err := uc.tasks.SetStatus(ctx, taskID, domain.StatusClosed); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}

	task.Status = domain.StatusClosed
	uc.record(ctx, usecase.ActionComplete, task)
	return nil
}

// Delete removes the task permanently. Only the owner may delete a task.
// Deleting a missing task is a no-op.
func (uc *UseCase) Delete(ctx context.Context, userID string, taskID int64) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if !task.OwnedBy(userID) {
		return domain.ErrNotOwner
	}

	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}

	uc.record(ctx, usecase.ActionDelete, task)
	return nil
}

func (uc *UseCase) ListOpen(ctx context.Context, userID string) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, userID, domain.StatusOpen)
}

func (uc *UseCase) ListClosed(ctx context.Context, userID string) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, userID, domain.StatusClosed)
}

func (uc *UseCase) record(ctx context.Context, action string, task *domain.Task) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.RecordTask(ctx, action, task); err != nil {
		uc.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
