package workflow

import "barangay-backend/models"

// Action is a caller-requested status change.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionRelease  Action = "release"
	ActionRespond  Action = "respond"
	ActionResolve  Action = "resolve"
)

// Who may trigger a transition.
type actorClass int

const (
	adminOnly actorClass = iota
	requesterOnly
	unitAdmin // admin of the from/to barangay on a relocation
)

type ruleKey struct {
	Kind   models.Kind
	Action Action
}

type rule struct {
	From     []models.Status
	To       models.Status
	Actor    actorClass
	Requires string // Fields key that must be non-empty; "" if none
}

// rules is the full transition table. One row per (kind, action); a lookup
// miss means the action does not exist for that kind.
var rules = map[ruleKey]rule{
	// item_loan
	{models.KindItemLoan, ActionApprove}: {From: []models.Status{models.StatusPending}, To: models.StatusApproved, Actor: adminOnly},
	{models.KindItemLoan, ActionReject}:  {From: []models.Status{models.StatusPending}, To: models.StatusRejected, Actor: adminOnly, Requires: "rejection_reason"},
	{models.KindItemLoan, ActionCancel}:  {From: []models.Status{models.StatusPending}, To: models.StatusCancelled, Actor: requesterOnly},

	// benefit_application
	{models.KindBenefitApplication, ActionApprove}:  {From: []models.Status{models.StatusPending}, To: models.StatusApproved, Actor: adminOnly},
	{models.KindBenefitApplication, ActionReject}:   {From: []models.Status{models.StatusPending}, To: models.StatusRejected, Actor: adminOnly, Requires: "rejection_reason"},
	{models.KindBenefitApplication, ActionComplete}: {From: []models.Status{models.StatusApproved}, To: models.StatusCompleted, Actor: adminOnly},

	// document_request; approve also calls the document generation service
	{models.KindDocumentRequest, ActionApprove}:  {From: []models.Status{models.StatusPending}, To: models.StatusApproved, Actor: adminOnly},
	{models.KindDocumentRequest, ActionReject}:   {From: []models.Status{models.StatusPending}, To: models.StatusRejected, Actor: adminOnly, Requires: "rejection_reason"},
	{models.KindDocumentRequest, ActionRelease}:  {From: []models.Status{models.StatusApproved}, To: models.StatusReady, Actor: adminOnly},
	{models.KindDocumentRequest, ActionComplete}: {From: []models.Status{models.StatusReady}, To: models.StatusCompleted, Actor: adminOnly},

	// sos_alert
	{models.KindSOSAlert, ActionRespond}: {From: []models.Status{models.StatusActive}, To: models.StatusResponded, Actor: adminOnly, Requires: "response_notes"},
	{models.KindSOSAlert, ActionResolve}: {From: []models.Status{models.StatusActive, models.StatusResponded}, To: models.StatusResolved, Actor: adminOnly},
	{models.KindSOSAlert, ActionCancel}:  {From: []models.Status{models.StatusActive}, To: models.StatusCancelled, Actor: requesterOnly},

	// relocation; approve flips the caller's unit flag, the engine recomputes
	// the overall status (both approve => approved, either reject => rejected)
	{models.KindRelocation, ActionApprove}: {From: []models.Status{models.StatusPending}, To: models.StatusApproved, Actor: unitAdmin},
	{models.KindRelocation, ActionReject}:  {From: []models.Status{models.StatusPending}, To: models.StatusRejected, Actor: unitAdmin, Requires: "rejection_reason"},
}

// InitialStatus returns the creation status for kind. SOS alerts open active;
// everything else starts pending.
func InitialStatus(kind models.Kind) models.Status {
	if kind == models.KindSOSAlert {
		return models.StatusActive
	}
	return models.StatusPending
}

func statusIn(s models.Status, list []models.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
