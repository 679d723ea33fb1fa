package workflow

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"barangay-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Engine is the single authority for request state changes. It holds no
// request state of its own; everything lives in the store, read per call.
type Engine struct {
	DB    *gorm.DB
	Audit *Sink
	Docs  DocumentGenerator
	Log   *logrus.Logger
}

func NewEngine(db *gorm.DB, audit *Sink, docs DocumentGenerator, log *logrus.Logger) *Engine {
	return &Engine{DB: db, Audit: audit, Docs: docs, Log: log}
}

// Fields carries the action-specific inputs of a transition call.
type Fields struct {
	RejectionReason string `json:"rejection_reason"`
	Notes           string `json:"notes"`
	ResponseNotes   string `json:"response_notes"`
}

func (f Fields) get(name string) string {
	switch name {
	case "rejection_reason":
		return strings.TrimSpace(f.RejectionReason)
	case "response_notes":
		return strings.TrimSpace(f.ResponseNotes)
	}
	return ""
}

// Create validates the payload against the per-kind schema and persists a new
// request in its initial status. Only residents file requests.
func (e *Engine) Create(actor Actor, kind models.Kind, raw []byte) (*models.Request, error) {
	if actor.Role != models.RoleResident {
		return nil, ErrForbidden
	}

	payload, err := models.ValidatePayload(kind, raw)
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		Kind:        kind,
		RequesterID: actor.ID,
		BarangayID:  actor.BarangayID,
		Status:      InitialStatus(kind),
		Payload:     datatypes.JSON(raw),
		Summary:     models.Summarize(kind, payload),
	}
	if p, ok := payload.(*models.RelocationPayload); ok {
		req.FromBarangayID = p.FromBarangayID
		req.ToBarangayID = p.ToBarangayID
	}

	if err := e.DB.Create(req).Error; err != nil {
		return nil, err
	}

	e.Audit.Record(models.AuditEvent{
		RequestID: req.Id,
		Kind:      req.Kind,
		Action:    "created",
		ActorID:   actor.ID,
		NewStatus: req.Status,
	})
	return req, nil
}

// Transition looks up, authorizes, validates and applies one status change.
// Conflicting concurrent calls are serialized by a compare-and-swap on the
// previously read status: the loser observes ErrInvalidTransition, never a
// silent overwrite. The audit event is written after commit, before return;
// an audit write failure is logged but does not undo the state change.
func (e *Engine) Transition(actor Actor, id string, action Action, fields Fields) (*models.Request, error) {
	var req models.Request
	var event models.AuditEvent

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		rl, ok := rules[ruleKey{Kind: req.Kind, Action: action}]
		if !ok {
			return ErrInvalidTransition
		}
		if err := authorize(actor, rl, &req); err != nil {
			return err
		}
		if !statusIn(req.Status, rl.From) {
			return ErrInvalidTransition
		}
		if rl.Requires != "" && fields.get(rl.Requires) == "" {
			return &MissingFieldError{Field: rl.Requires}
		}

		prior := req.Status
		now := time.Now().UTC()
		updates := map[string]any{}
		newStatus := rl.To

		if req.Kind == models.KindRelocation && action == ActionApprove {
			var err error
			newStatus, err = applyRelocationApproval(&req, actor, now, updates)
			if err != nil {
				return err
			}
		}

		// Document generation is part of the approval: there must never be an
		// approved document request without its document.
		if req.Kind == models.KindDocumentRequest && action == ActionApprove {
			var p models.DocumentRequestPayload
			if err := json.Unmarshal(req.Payload, &p); err != nil {
				return err
			}
			ref, err := e.Docs.Generate(p.DocumentType, req.RequesterID, p.Quantity)
			if err != nil {
				return &DependencyFailure{Op: "document generation", Err: err}
			}
			updates["document_ref"] = ref
		}

		updates["status"] = newStatus
		// decided_at/decided_by name the admin decision; a requester's cancel
		// is not one.
		if actor.Admin() && newStatus != prior && req.DecidedAt == nil {
			updates["decided_at"] = now
			updates["decided_by"] = actor.ID
		}
		if action == ActionReject {
			updates["rejection_reason"] = fields.get("rejection_reason")
		}
		if action == ActionRespond {
			updates["response_notes"] = fields.get("response_notes")
		}
		if action == ActionComplete {
			updates["completed_at"] = now
		}
		if n := strings.TrimSpace(fields.Notes); n != "" {
			updates["decision_notes"] = n
		}

		// CAS on the status we read above; a raced writer leaves zero rows.
		// Relocation approvals also guard the unit flags so two concurrent
		// complementary approvals cannot both commit against stale flags.
		q := tx.Model(&models.Request{}).Where("id = ? AND status = ?", req.Id, prior)
		if req.Kind == models.KindRelocation && action == ActionApprove {
			q = q.Where("from_approved = ? AND to_approved = ?", req.FromApproved, req.ToApproved)
		}
		res := q.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := tx.First(&req, "id = ?", req.Id).Error; err != nil {
			return err
		}

		event = models.AuditEvent{
			RequestID:   req.Id,
			Kind:        req.Kind,
			Action:      string(action),
			ActorID:     actor.ID,
			PriorStatus: prior,
			NewStatus:   req.Status,
			Notes:       eventNotes(action, fields),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.Log.WithFields(logrus.Fields{
		"request_id": req.Id,
		"kind":       req.Kind,
		"action":     action,
		"status":     req.Status,
	}).Info("request transitioned")

	e.Audit.Record(event)
	return &req, nil
}

// applyRelocationApproval flips the flag of the caller's unit and returns the
// recomputed overall status: pending until both units approve.
func applyRelocationApproval(req *models.Request, actor Actor, now time.Time, updates map[string]any) (models.Status, error) {
	switch actor.BarangayID {
	case req.FromBarangayID:
		if req.FromApproved {
			return "", ErrInvalidTransition
		}
		updates["from_approved"] = true
		updates["from_approved_by"] = actor.ID
		updates["from_approved_at"] = now
		if req.ToApproved {
			return models.StatusApproved, nil
		}
	case req.ToBarangayID:
		if req.ToApproved {
			return "", ErrInvalidTransition
		}
		updates["to_approved"] = true
		updates["to_approved_by"] = actor.ID
		updates["to_approved_at"] = now
		if req.FromApproved {
			return models.StatusApproved, nil
		}
	default:
		return "", ErrForbidden
	}
	return models.StatusPending, nil
}

func authorize(actor Actor, rl rule, req *models.Request) error {
	switch rl.Actor {
	case adminOnly:
		if !actor.Admin() {
			return ErrForbidden
		}
	case requesterOnly:
		if actor.Admin() || actor.ID != req.RequesterID {
			return ErrForbidden
		}
	case unitAdmin:
		if !actor.Admin() {
			return ErrForbidden
		}
		if actor.BarangayID != req.FromBarangayID && actor.BarangayID != req.ToBarangayID {
			return ErrForbidden
		}
	}
	return nil
}

func eventNotes(action Action, fields Fields) string {
	if action == ActionReject {
		return fields.get("rejection_reason")
	}
	if action == ActionRespond {
		return fields.get("response_notes")
	}
	return strings.TrimSpace(fields.Notes)
}
