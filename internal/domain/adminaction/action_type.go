package adminaction

import (
	"errors"
	"strings"
)

// ActionType corresponds to the kinds of administrative interventions
// recorded in the `admin_actions` table.
type ActionType string

const (
	ActionApprove      ActionType = "approve"
	ActionReject       ActionType = "reject"
	ActionModify       ActionType = "modify"
	ActionCancel       ActionType = "cancel"
	ActionAssignDriver ActionType = "assign_driver"
)

var ErrInvalidActionType = errors.New("invalid admin action type")

// ParseActionType normalizes (lowercases+trims) and validates an action type string.
func ParseActionType(input string) (ActionType, error) {
	actionType := ActionType(strings.ToLower(strings.TrimSpace(input)))
	if actionType.Valid() {
		return actionType, nil
	}
	return "", ErrInvalidActionType
}

// Valid reports whether actionType is one of the allowed action type constants.
func (actionType ActionType) Valid() bool {
	switch actionType {
	case ActionApprove, ActionReject, ActionModify, ActionCancel, ActionAssignDriver:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ActionType.
func (actionType ActionType) String() string {
	return string(actionType)
}
