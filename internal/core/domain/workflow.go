package domain

import "github.com/verdanterp/ledger_core/internal/apperrors"

// WorkflowAction is one of the operations that moves a journal entry through
// the approval lifecycle.
type WorkflowAction string

const (
	ActionSubmit  WorkflowAction = "submit"
	ActionApprove WorkflowAction = "approve"
	ActionReject  WorkflowAction = "reject"
	ActionPost    WorkflowAction = "post"
)

// transitions is the closed transition table for the approval workflow.
// Any (state, action) pair not listed here is rejected; callers never supply
// target statuses directly.
var transitions = map[EntryStatus]map[WorkflowAction]EntryStatus{
	Draft: {
		ActionSubmit: PendingApproval,
	},
	PendingApproval: {
		ActionApprove: Approved,
		ActionReject:  Rejected,
	},
	Approved: {
		ActionPost: Posted,
	},
	// POSTED and REJECTED are terminal; a rejected entry is superseded by a
	// new draft, never resurrected.
}

// NextStatus resolves the target status for applying action in the current
// status. It returns an InvalidStateError naming the current status and the
// attempted action when the transition is not in the table.
func NextStatus(current EntryStatus, action WorkflowAction) (EntryStatus, error) {
	if actions, ok := transitions[current]; ok {
		if next, ok := actions[action]; ok {
			return next, nil
		}
	}
	return "", apperrors.NewInvalidStateError(string(current), string(action))
}

// CanDelete reports whether an entry in the given status may be deleted.
// Only DRAFT and REJECTED entries are removable; everything else is part of
// the audit trail.
func CanDelete(status EntryStatus) bool {
	return status == Draft || status == Rejected
}

// IsTerminal reports whether no further workflow action applies to the status.
func IsTerminal(status EntryStatus) bool {
	_, ok := transitions[status]
	return !ok
}
