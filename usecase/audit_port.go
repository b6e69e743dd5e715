package usecase

import (
	"context"

	"github.com/taskline/backend/domain"
)

// Audit actions recorded by the use cases.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionCreate   = "create"
	ActionComplete = "complete"
	ActionDelete   = "delete"
)

// AuditTrail abstracts the audit journal so use cases stay storage-agnostic.
// Recording is best-effort: failures are logged, never surfaced to the user.
type AuditTrail interface {
	RecordAuth(ctx context.Context, action string, userID string) error
	RecordTask(ctx context.Context, action string, task *domain.Task) error
}
