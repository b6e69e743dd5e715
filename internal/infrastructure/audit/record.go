package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entities recorded in the journal.
const (
	EntityUser = "user"
	EntityTask = "task"
)

// Record is a single audit journal entry. Detail carries an optional
// snapshot of the affected entity.
type Record struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Action    string          `json:"action"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	Timestamp time.Time       `json:"timestamp"`

	storeKey []byte
}

func (r *Record) normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
}
