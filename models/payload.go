package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ItemLoanPayload asks to borrow a barangay-owned item for a fixed duration.
type ItemLoanPayload struct {
	ItemID   uint   `json:"item_id" validate:"required"`
	LoanDays int    `json:"loan_days" validate:"required,oneof=1 3 7 14 30"`
	Purpose  string `json:"purpose"`
}

// BenefitApplicationPayload applies for a benefit program with form answers.
type BenefitApplicationPayload struct {
	BenefitID uint              `json:"benefit_id" validate:"required"`
	Answers   map[string]string `json:"answers"`
	Documents []string          `json:"documents"`
}

// DocumentRequestPayload orders official documents (clearance, certificate, ...).
type DocumentRequestPayload struct {
	DocumentType   string `json:"document_type" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,min=1,max=10"`
	Purpose        string `json:"purpose" validate:"required"`
	DeliveryMethod string `json:"delivery_method" validate:"omitempty,oneof=pickup email mail"`
}

// SOSAlertPayload reports an emergency. Location is mandatory so responders
// know where to go; coordinates are optional refinements.
type SOSAlertPayload struct {
	EmergencyType string   `json:"emergency_type" validate:"required,oneof=medical fire security natural_disaster other"`
	Location      string   `json:"location" validate:"required"`
	Description   string   `json:"description"`
	ContactPhone  string   `json:"contact_phone"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// RelocationPayload requests a transfer between two barangays.
type RelocationPayload struct {
	FromBarangayID uint   `json:"from_barangay_id" validate:"required"`
	ToBarangayID   uint   `json:"to_barangay_id" validate:"required,nefield=FromBarangayID"`
	NewAddress     string `json:"new_address" validate:"required"`
	Reason         string `json:"reason"`
}

// ValidationError reports a malformed or out-of-range payload at creation.
// Never retried; the caller corrects the input and resubmits.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid payload (" + strings.Join(parts, "; ") + ")"
}

// ValidatePayload decodes raw against the schema for kind. Pure: no side
// effects, usable by both the creation path and the workflow engine.
func ValidatePayload(kind Kind, raw []byte) (any, error) {
	var dst any
	switch kind {
	case KindItemLoan:
		dst = &ItemLoanPayload{}
	case KindBenefitApplication:
		dst = &BenefitApplicationPayload{}
	case KindDocumentRequest:
		dst = &DocumentRequestPayload{DeliveryMethod: "pickup"}
	case KindSOSAlert:
		dst = &SOSAlertPayload{}
	case KindRelocation:
		dst = &RelocationPayload{}
	default:
		return nil, &ValidationError{Fields: map[string]string{"kind": "unknown"}}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"payload": "malformed json"}}
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			out := make(map[string]string, len(ve))
			for _, fe := range ve {
				out[fe.Field()] = fe.Tag()
			}
			return nil, &ValidationError{Fields: out}
		}
		return nil, err
	}
	return dst, nil
}

// Summarize builds the one-line search text shown on dashboards.
func Summarize(kind Kind, payload any) string {
	switch p := payload.(type) {
	case *ItemLoanPayload:
		return strings.TrimSpace(fmt.Sprintf("item %d for %d days %s", p.ItemID, p.LoanDays, p.Purpose))
	case *BenefitApplicationPayload:
		return fmt.Sprintf("benefit %d application", p.BenefitID)
	case *DocumentRequestPayload:
		return strings.TrimSpace(fmt.Sprintf("%s x%d %s", p.DocumentType, p.Quantity, p.Purpose))
	case *SOSAlertPayload:
		return strings.TrimSpace(p.EmergencyType + " at " + p.Location)
	case *RelocationPayload:
		return strings.TrimSpace(fmt.Sprintf("barangay %d to %d, %s", p.FromBarangayID, p.ToBarangayID, p.NewAddress))
	}
	return string(kind)
}
