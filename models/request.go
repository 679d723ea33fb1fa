package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Kind discriminates the request variants. Fixed at creation; determines
// which payload schema and transition set apply.
type Kind string

const (
	KindItemLoan           Kind = "item_loan"
	KindBenefitApplication Kind = "benefit_application"
	KindDocumentRequest    Kind = "document_request"
	KindSOSAlert           Kind = "sos_alert"
	KindRelocation         Kind = "relocation"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusReady     Status = "ready"
	StatusActive    Status = "active"
	StatusResponded Status = "responded"
	StatusResolved  Status = "resolved"
)

// Request is the live state of one citizen submission. Status is mutated
// only through the workflow engine; rows are never deleted.
type Request struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Kind        Kind   `json:"kind" gorm:"type:VARCHAR(30);not null;index"`
	RequesterID string `json:"requester_id" gorm:"not null;index"`
	BarangayID  uint   `json:"barangay_id" gorm:"not null;index"`

	Status  Status         `json:"status" gorm:"type:VARCHAR(20);not null;index"`
	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	Summary string         `json:"summary"` // search target derived from the payload at creation

	DecidedAt       *time.Time `json:"decided_at"`
	DecidedBy       *string    `json:"decided_by"`
	DecisionNotes   string     `json:"decision_notes,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at"`

	// document_request only: reference returned by the generation service
	DocumentRef string `json:"document_ref,omitempty"`

	// sos_alert only: appended by the responding admin
	ResponseNotes string `json:"response_notes,omitempty"`

	// relocation only: dual-approval bookkeeping
	FromBarangayID uint       `json:"from_barangay_id,omitempty" gorm:"index"`
	ToBarangayID   uint       `json:"to_barangay_id,omitempty" gorm:"index"`
	FromApproved   bool       `json:"from_barangay_approved"`
	FromApprovedBy *string    `json:"from_barangay_approved_by,omitempty"`
	FromApprovedAt *time.Time `json:"from_barangay_approved_at,omitempty"`
	ToApproved     bool       `json:"to_barangay_approved"`
	ToApprovedBy   *string    `json:"to_barangay_approved_by,omitempty"`
	ToApprovedAt   *time.Time `json:"to_barangay_approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (request *Request) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if request.Id == "" {
		request.Id = uuid.NewString()
	}
	return
}

// Terminal reports whether the status admits no further transition.
func (request *Request) Terminal() bool {
	switch request.Status {
	case StatusRejected, StatusCancelled, StatusCompleted, StatusResolved:
		return true
	}
	return false
}
