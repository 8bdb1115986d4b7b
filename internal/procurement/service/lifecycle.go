package service

import "github.com/RatishMoondra/pharma-backend/internal/procurement/entity"

// Lifecycle actions
const (
	ActionSubmit       = "submit-for-approval"
	ActionApprove      = "approve"
	ActionReject       = "reject"
	ActionMarkReady    = "mark-ready"
	ActionSendToVendor = "send-to-vendor"
)

// transition one allowed lifecycle step
type transition struct {
	from []string
	to   string
}

// lifecycle fixed approval chain DRAFT → PENDING_APPROVAL → APPROVED →
// READY → SENT, with REJECTED reachable from PENDING_APPROVAL and APPROVED.
var lifecycle = map[string]transition{
	ActionSubmit:       {from: []string{entity.POStatusDraft}, to: entity.POStatusPendingApproval},
	ActionApprove:      {from: []string{entity.POStatusPendingApproval}, to: entity.POStatusApproved},
	ActionReject:       {from: []string{entity.POStatusPendingApproval, entity.POStatusApproved}, to: entity.POStatusRejected},
	ActionMarkReady:    {from: []string{entity.POStatusApproved}, to: entity.POStatusReady},
	ActionSendToVendor: {from: []string{entity.POStatusReady}, to: entity.POStatusSent},
}

// NextStatus returns the target status for an action from the given status.
// ErrInvalidTransition when the action is unknown or not allowed from there.
func NextStatus(action, from string) (string, error) {
	t, ok := lifecycle[action]
	if !ok {
		return "", ErrInvalidTransition
	}
	for _, f := range t.from {
		if f == from {
			return t.to, nil
		}
	}
	return "", ErrInvalidTransition
}

// CanDelete reports whether a PO in the given status may still be deleted.
// APPROVED, READY and SENT are immutable with respect to deletion.
func CanDelete(status string) bool {
	return status == entity.POStatusDraft || status == entity.POStatusPendingApproval
}
