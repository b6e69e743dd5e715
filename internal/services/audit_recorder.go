package services

import (
	"context"
	"encoding/json"

	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/internal/infrastructure/audit"
	"github.com/taskline/backend/usecase"
)

// AuditRecorder adapts the bolt journal to the use cases' audit port.
type AuditRecorder struct {
	store *audit.Store
}

func NewAuditRecorder(store *audit.Store) *AuditRecorder {
	return &AuditRecorder{store: store}
}

func (r *AuditRecorder) RecordAuth(ctx context.Context, action string, userID string) error {
	if r.store == nil || userID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.Append(audit.Record{
		UserID: userID,
		Entity: audit.EntityUser,
		Action: action,
	})
}

func (r *AuditRecorder) RecordTask(ctx context.Context, action string, task *domain.Task) error {
	if r.store == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	detail, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return r.store.Append(audit.Record{
		UserID: task.UserID,
		Entity: audit.EntityTask,
		Action: action,
		Detail: detail,
	})
}

var _ usecase.AuditTrail = (*AuditRecorder)(nil)
