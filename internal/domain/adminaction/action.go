package adminaction

import (
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"time"

	"corpride/internal/domain/ride"
)

// Action is the domain entity corresponding to the `admin_actions` table.
// It is an append-only audit record: one row per administrative intervention
// on a ride, never updated after insert.
type Action struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time

	// Foreign keys
	RideID  string
	AdminID string

	// Core payload
	Type   ActionType
	Reason string

	// Status snapshot around the intervention. Nil when the action did not
	// move the ride (driver assignment keeps the status as-is).
	PreviousStatus *ride.Status
	NewStatus      *ride.Status

	// Request context captured at the HTTP boundary
	Metadata  map[string]any
	IPAddress string
	UserAgent string
}

var (
	ErrRideIDRequired  = errors.New("ride id is required")
	ErrAdminIDRequired = errors.New("admin id is required")
)

// New constructs a new Action in memory. Metadata is defensively copied so
// later mutation by the caller cannot reach the audit record.
func New(rideID, adminID string, actionType ActionType, reason string, metadata map[string]any) (*Action, error) {
	if rideID = strings.TrimSpace(rideID); rideID == "" {
		return nil, ErrRideIDRequired
	}
	if adminID = strings.TrimSpace(adminID); adminID == "" {
		return nil, ErrAdminIDRequired
	}
	if !actionType.Valid() {
		return nil, ErrInvalidActionType
	}

	return &Action{
		RideID:    rideID,
		AdminID:   adminID,
		Type:      actionType,
		Reason:    strings.TrimSpace(reason),
		Metadata:  cloneMap(metadata),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// WithTransition records the before/after statuses of the intervention.
func (action *Action) WithTransition(from, to ride.Status) *Action {
	action.PreviousStatus = &from
	action.NewStatus = &to
	return action
}

// WithRequestContext attaches the caller's network context.
func (action *Action) WithRequestContext(ip, userAgent string) *Action {
	action.IPAddress = strings.TrimSpace(ip)
	action.UserAgent = strings.TrimSpace(userAgent)
	return action
}

// Validate performs basic invariants checks mirroring DB constraints.
func (action *Action) Validate() error {
	if action.RideID == "" {
		return ErrRideIDRequired
	}
	if action.AdminID == "" {
		return ErrAdminIDRequired
	}
	if !action.Type.Valid() {
		return ErrInvalidActionType
	}
	if action.PreviousStatus != nil && !action.PreviousStatus.Valid() {
		return ride.ErrInvalidStatus
	}
	if action.NewStatus != nil && !action.NewStatus.Valid() {
		return ride.ErrInvalidStatus
	}
	return nil
}

// MetadataJSON returns action.Metadata encoded as JSON, or nil when empty.
func (action *Action) MetadataJSON() ([]byte, error) {
	if len(action.Metadata) == 0 {
		return nil, nil
	}
	return json.Marshal(action.Metadata)
}

// cloneMap makes a shallow defensive copy of a map[string]any.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	maps.Copy(dst, src)
	return dst
}
