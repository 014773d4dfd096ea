package console

import (
	"errors"
	"fmt"
)

var (
	ErrActionInProgress     = errors.New("ACTION_IN_PROGRESS")
	ErrConfirmationDeclined = errors.New("CONFIRMATION_DECLINED")
	ErrRecordNotFound       = errors.New("RECORD_NOT_FOUND")
	ErrAdminRole            = errors.New("ADMIN_ROLE_IMMUTABLE")
	ErrInvalidRole          = errors.New("INVALID_ROLE")
)

// Action names an operator mutation.
type Action string

const (
	ActionFreeze Action = "freeze"
	ActionRole   Action = "role"
	ActionDelete Action = "delete"
)

// operatorMessages are the user-facing texts shown when a mutation fails.
var operatorMessages = map[Action]string{
	ActionFreeze: "failed to change vendor state",
	ActionRole:   "failed to change user role",
	ActionDelete: "failed to delete vendor",
}

// ActionError is returned when a remote mutation fails. The working set is
// left untouched and the record's lock is already released.
type ActionError struct {
	Action Action
	ID     string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.ID, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Message is the text to surface to the operator.
func (e *ActionError) Message() string {
	if msg, ok := operatorMessages[e.Action]; ok {
		return msg
	}
	return "action failed"
}
