package handler

import (
	"context"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskline/backend/api/transport"
	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/internal/middleware"
	"github.com/taskline/backend/pkg/httpcontext"
	taskUC "github.com/taskline/backend/usecase/task"
)

// priorityChoices mirrors the select options offered by the add-task form.
var priorityChoices = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

type tasksPage struct {
	Flash       string
	Error       string
	Priorities  []int
	OpenTasks   []domain.Task
	ClosedTasks []domain.Task
}

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Tasks renders the open and closed lists for the logged-in user.
func (h *TaskHandler) Tasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.buildPage(stdCtx, userID)
	if err != nil {
		h.failUnavailable(ctx, err)
		return
	}
	page.Flash = transport.PopFlash(ctx)
	h.renderPage(ctx, "tasks.html", page)
}

// Add creates a new task from the posted form. Validation failures
// re-render the tasks page with the message; the lists stay visible.
func (h *TaskHandler) Add(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	form := transport.ParseTaskForm(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Create(stdCtx, userID, form.Name, form.DueDate, form.Priority); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) {
			page, buildErr := h.buildPage(stdCtx, userID)
			if buildErr != nil {
				h.failUnavailable(ctx, buildErr)
				return
			}
			page.Error = userMessage(err)
			h.renderPage(ctx, "tasks.html", page)
			return
		}
		h.failUnavailable(ctx, err)
		return
	}

	h.redirectWithFlash(ctx, "/tasks/", "New task was successfully created.")
}

// Complete marks the task closed and redirects back to the lists.
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	h.mutate(ctx, func(stdCtx context.Context, userID string, taskID int64) error {
		return h.uc.Complete(stdCtx, userID, taskID)
	}, "Task marked complete.")
}

// Delete removes the task and redirects back to the lists.
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	h.mutate(ctx, func(stdCtx context.Context, userID string, taskID int64) error {
		return h.uc.Delete(stdCtx, userID, taskID)
	}, "Task deleted successfully.")
}

func (h *TaskHandler) mutate(ctx *fasthttp.RequestCtx, op func(context.Context, string, int64) error, success string) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	taskID, err := strconv.ParseInt(pathValue(ctx, "id"), 10, 64)
	if err != nil {
		h.redirectWithFlash(ctx, "/tasks/", "Unknown task")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := op(stdCtx, userID, taskID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeForbidden) {
			h.redirectWithFlash(ctx, "/tasks/", userMessage(err))
			return
		}
		h.failUnavailable(ctx, err)
		return
	}

	h.redirectWithFlash(ctx, "/tasks/", success)
}

func (h *TaskHandler) buildPage(ctx context.Context, userID string) (tasksPage, error) {
	open, err := h.uc.ListOpen(ctx, userID)
	if err != nil {
		return tasksPage{}, err
	}
	closed, err := h.uc.ListClosed(ctx, userID)
	if err != nil {
		return tasksPage{}, err
	}
	return tasksPage{
		Priorities:  priorityChoices,
		OpenTasks:   open,
		ClosedTasks: closed,
	}, nil
}

func (h *TaskHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID, _ := ctx.UserValue(middleware.UserIDKey).(string)
	if userID == "" {
		// The guard should have populated this; treat it as unauthenticated.
		transport.SetFlash(ctx, domain.ErrNotAuthenticated.Message)
		ctx.Redirect("/", fasthttp.StatusFound)
	}
	return userID
}

func pathValue(ctx *fasthttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}
