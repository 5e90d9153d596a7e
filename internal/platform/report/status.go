package report

import "errors"

// Status is the validation state attached to weekly and monthly reports.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusTransmitted        Status = "transmitted_to_chief"
	StatusValidatedChief     Status = "validated_by_chief"
	StatusValidatedDirection Status = "validated_by_direction"
	StatusRejected           Status = "rejected"
)

// Roles recognized by the validation workflow.
const (
	RoleAgent     = "agent"
	RoleChief     = "chef_service"
	RoleDirection = "direction"
	RoleAdmin     = "admin"
)

var (
	// ErrTerminalStatus is returned for any mutation of a report in a
	// terminal state. Terminal reports are frozen snapshots.
	ErrTerminalStatus = errors.New("report is in a terminal state")
	// ErrRoleNotAllowed is returned when the acting role cannot perform the
	// requested transition at the report's current stage.
	ErrRoleNotAllowed = errors.New("role not allowed for this transition")
	// ErrInvalidTransition is returned when no transition exists from the
	// current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusTransmitted, StatusValidatedChief, StatusValidatedDirection, StatusRejected:
		return true
	}
	return false
}

// Terminal reports admit no further transition. There is no modeled path from
// rejected back to draft; resubmission is unsupported.
func (s Status) Terminal() bool {
	return s == StatusValidatedDirection || s == StatusRejected
}

// NextOnValidate returns the status reached when an actor with the given role
// validates a report in status cur. ownService must be true for chef_service
// actors validating their own service's report; admin passes unconditionally.
//
// Direction reads chief-validated reports but is deliberately blocked from
// advancing them to validated_by_direction here, matching the behavior the
// validation handler has always had.
func NextOnValidate(cur Status, role string, ownService bool) (Status, error) {
	if cur.Terminal() {
		return cur, ErrTerminalStatus
	}
	switch cur {
	case StatusTransmitted:
		if role == RoleAdmin || (role == RoleChief && ownService) {
			return StatusValidatedChief, nil
		}
		return cur, ErrRoleNotAllowed
	case StatusValidatedChief:
		return cur, ErrRoleNotAllowed
	default:
		return cur, ErrInvalidTransition
	}
}

// CanReject reports whether an actor with the given role may reject a report
// in status cur. Rejection is permitted for whichever role could have
// validated at that stage.
func CanReject(cur Status, role string, ownService bool) error {
	if cur.Terminal() {
		return ErrTerminalStatus
	}
	switch cur {
	case StatusTransmitted:
		if role == RoleAdmin || (role == RoleChief && ownService) {
			return nil
		}
		return ErrRoleNotAllowed
	case StatusValidatedChief:
		if role == RoleAdmin || role == RoleDirection {
			return nil
		}
		return ErrRoleNotAllowed
	default:
		return ErrInvalidTransition
	}
}
