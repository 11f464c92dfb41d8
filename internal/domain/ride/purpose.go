package ride

import (
	"errors"
	"strings"
)

// Purpose records why the ride was requested. Informational only: it never
// gates a status transition.
type Purpose string

const (
	PurposeOffice      Purpose = "office"
	PurposeMeeting     Purpose = "meeting"
	PurposeClientVisit Purpose = "client-visit"
	PurposeAirport     Purpose = "airport"
	PurposeOther       Purpose = "other"
)

var ErrInvalidPurpose = errors.New("invalid ride purpose")

// ParsePurpose normalizes (lowercases+trims) and validates a purpose string.
func ParsePurpose(in string) (Purpose, error) {
	p := Purpose(strings.ToLower(strings.TrimSpace(in)))
	if p.Valid() {
		return p, nil
	}
	return "", ErrInvalidPurpose
}

// Valid reports whether p is one of the allowed purpose constants.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeOffice, PurposeMeeting, PurposeClientVisit, PurposeAirport, PurposeOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Purpose.
func (p Purpose) String() string {
	return string(p)
}

// Priority ranks the ride for dispatchers. Informational only, like Purpose.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var ErrInvalidPriority = errors.New("invalid ride priority")

// ParsePriority normalizes (lowercases+trims) and validates a priority string.
func ParsePriority(in string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(in)))
	if p.Valid() {
		return p, nil
	}
	return "", ErrInvalidPriority
}

// Valid reports whether p is one of the allowed priority constants.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Priority.
func (p Priority) String() string {
	return string(p)
}
