package models

import "time"

// AuditEvent is an append-only record of a creation or transition. Rows are
// never updated or deleted; the trail is the ordering source of truth.
type AuditEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequestID   string    `json:"request_id" gorm:"not null;index:idx_audit_events_request_created,priority:1"`
	Kind        Kind      `json:"kind" gorm:"type:VARCHAR(30);not null"`
	Action      string    `json:"action" gorm:"type:VARCHAR(30);not null;index"`
	ActorID     string    `json:"actor_id" gorm:"not null;index"`
	PriorStatus Status    `json:"prior_status" gorm:"type:VARCHAR(20)"`
	NewStatus   Status    `json:"new_status" gorm:"type:VARCHAR(20);not null"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_audit_events_request_created,priority:2"`
}
