package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `
	SELECT task_id, user_id, name, due_date, priority, status, posted_date
	FROM tasks
	WHERE task_id = $1
	`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) ListByOwner(ctx context.Context, userID string, status int) ([]domain.Task, error) {
	// task_id is a serial, so the tie-break preserves insertion order.
	const query = `
	SELECT task_id, user_id, name, due_date, priority, status, posted_date
	FROM tasks
	WHERE user_id = $1 AND status = $2
	ORDER BY due_date ASC, task_id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (user_id, name, due_date, priority, status, posted_date)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	RETURNING task_id, posted_date
	`

	if err := r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Name,
		task.DueDate,
		task.Priority,
		task.Status,
		nullTime(task.PostedDate),
	).Scan(&task.ID, &task.PostedDate); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) SetStatus(ctx context.Context, id int64, status int) error {
	const query = `UPDATE tasks SET status = $2 WHERE task_id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tasks WHERE task_id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&task.PostedDate,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
