package ride

import (
	"errors"
	"strings"
)

// Type classifies how often a ride runs.
type Type string

const (
	TypeDaily     Type = "daily"
	TypeOneTime   Type = "one-time"
	TypeRecurring Type = "recurring"
)

var ErrInvalidType = errors.New("invalid ride type")

// ParseType normalizes (lowercases+trims) and validates a ride type string.
func ParseType(in string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(in)))
	if t.Valid() {
		return t, nil
	}
	return "", ErrInvalidType
}

// Valid reports whether t is one of the allowed ride type constants.
func (t Type) Valid() bool {
	switch t {
	case TypeDaily, TypeOneTime, TypeRecurring:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Type.
func (t Type) String() string {
	return string(t)
}

// Weekday is a lowercase weekday name used by recurring rides.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var ErrInvalidWeekday = errors.New("invalid weekday name")

// ParseWeekday normalizes (lowercases+trims) and validates a weekday name.
func ParseWeekday(in string) (Weekday, error) {
	day := Weekday(strings.ToLower(strings.TrimSpace(in)))
	if day.Valid() {
		return day, nil
	}
	return "", ErrInvalidWeekday
}

// Valid reports whether day is one of the seven weekday names.
func (day Weekday) Valid() bool {
	switch day {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Weekday.
func (day Weekday) String() string {
	return string(day)
}

// NormalizeWeekdays validates names and drops duplicates; order of first
// occurrence is preserved, which is enough since the set is what matters.
func NormalizeWeekdays(in []string) ([]Weekday, error) {
	seen := make(map[Weekday]bool, len(in))
	out := make([]Weekday, 0, len(in))
	for _, s := range in {
		day, err := ParseWeekday(s)
		if err != nil {
			return nil, err
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	return out, nil
}
