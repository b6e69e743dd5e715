package task

import (
	"context"
	"sort"
	"testing"

	"github.com/taskline/backend/domain"
)

type fakeTaskRepo struct {
	nextID int64
	tasks  map[int64]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, tasks: make(map[int64]*domain.Task)}
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) ListByOwner(_ context.Context, userID string, status int) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.Status == status {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	task.ID = r.nextID
	r.nextID++
	copied := *task
	r.tasks[task.ID] = &copied
	return task, nil
}

func (r *fakeTaskRepo) SetStatus(_ context.Context, id int64, status int) error {
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func newTestUseCase() (*UseCase, *fakeTaskRepo) {
	repo := newFakeTaskRepo()
	return New(repo, nil, nil), repo
}

func TestCreate_Valid(t *testing.T) {
	uc, _ := newTestUseCase()

	task, err := uc.Create(context.Background(), "alice", "Pay bills", "12/01/2020", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != domain.StatusOpen {
		t.Errorf("new task status = %d, want %d", task.Status, domain.StatusOpen)
	}
	if task.PostedDate.IsZero() {
		t.Error("posted date not set")
	}
	if got := task.DueDate.Format(DueDateLayout); got != "12/01/2020" {
		t.Errorf("due date = %s", got)
	}
	if task.UserID != "alice" {
		t.Errorf("owner = %q", task.UserID)
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		dueDate  string
		priority int
	}{
		{"missing name", "", "12/01/2020", 5},
		{"missing due date", "Pay bills", "", 5},
		{"bad due date format", "Pay bills", "2020-12-01", 5},
		{"priority too low", "Pay bills", "12/01/2020", 0},
		{"priority too high", "Pay bills", "12/01/2020", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo := newTestUseCase()
			_, err := uc.Create(context.Background(), "alice", tt.taskName, tt.dueDate, tt.priority)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.tasks) != 0 {
				t.Error("no task should be stored on validation failure")
			}
		})
	}
}

func TestComplete(t *testing.T) {
	uc, repo := newTestUseCase()
	task, err := uc.Create(context.Background(), "alice", "Pay bills", "12/01/2020", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Complete(context.Background(), "alice", task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.tasks[task.ID].Status != domain.StatusClosed {
		t.Error("task not closed")
	}

	// Completing again is a no-op.
	if err := uc.Complete(context.Background(), "alice", task.ID); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if repo.tasks[task.ID].Status != domain.StatusClosed {
		t.Error("status changed on repeated complete")
	}
}

func TestComplete_NotOwner(t *testing.T) {
	uc, repo := newTestUseCase()
	task, err := uc.Create(context.Background(), "alice", "Pay bills", "12/01/2020", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = uc.Complete(context.Background(), "bob", task.ID)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.tasks[task.ID].Status != domain.StatusOpen {
		t.Error("cross-owner complete mutated the task")
	}
}

func TestComplete_Missing(t *testing.T) {
	uc, _ := newTestUseCase()
	if err := uc.Complete(context.Background(), "alice", 99); err != nil {
		t.Fatalf("completing a missing task should be a no-op, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	uc, repo := newTestUseCase()
	task, err := uc.Create(context.Background(), "alice", "Pay bills", "12/01/2020", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Delete(context.Background(), "alice", task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.tasks) != 0 {
		t.Error("task not removed")
	}

	// Deleting again is a no-op.
	if err := uc.Delete(context.Background(), "alice", task.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDelete_NotOwner(t *testing.T) {
	uc, repo := newTestUseCase()
	task, err := uc.Create(context.Background(), "alice", "Pay bills", "12/01/2020", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = uc.Delete(context.Background(), "bob", task.ID)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, ok := repo.tasks[task.ID]; !ok {
		t.Error("cross-owner delete removed the task")
	}
}

func TestLists_PartitionAndOrder(t *testing.T) {
	uc, _ := newTestUseCase()

	a, err := uc.Create(context.Background(), "alice", "A", "01/01/2019", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := uc.Create(context.Background(), "alice", "B", "01/01/2019", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := uc.Create(context.Background(), "alice", "C", "06/15/2018", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Create(context.Background(), "bob", "D", "01/01/2019", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Complete(context.Background(), "alice", c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	open, err := uc.ListOpen(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closed, err := uc.ListClosed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal due dates keep insertion order.
	if len(open) != 2 || open[0].ID != a.ID || open[1].ID != b.ID {
		t.Fatalf("open list = %v", ids(open))
	}
	if len(closed) != 1 || closed[0].ID != c.ID {
		t.Fatalf("closed list = %v", ids(closed))
	}
	for _, task := range open {
		if task.Status != domain.StatusOpen {
			t.Errorf("open list contains status %d", task.Status)
		}
	}
	for _, task := range closed {
		if task.Status != domain.StatusClosed {
			t.Errorf("closed list contains status %d", task.Status)
		}
	}
}

func TestListOrder_DueDateAscending(t *testing.T) {
	uc, _ := newTestUseCase()

	later, err := uc.Create(context.Background(), "alice", "later", "12/31/2020", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sooner, err := uc.Create(context.Background(), "alice", "sooner", "01/02/2020", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	open, err := uc.ListOpen(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 2 || open[0].ID != sooner.ID || open[1].ID != later.ID {
		t.Fatalf("open list = %v", ids(open))
	}
}

func ids(tasks []domain.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
