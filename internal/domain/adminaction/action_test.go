package adminaction

import (
	"errors"
	"testing"

	"corpride/internal/domain/ride"
)

func TestNewAction(t *testing.T) {
	meta := map[string]any{"source": "dashboard"}
	action, err := New(" ride-1 ", "admin-1", ActionApprove, "  looks fine ", meta)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if action.RideID != "ride-1" || action.AdminID != "admin-1" {
		t.Errorf("ids not trimmed: %q %q", action.RideID, action.AdminID)
	}
	if action.Reason != "looks fine" {
		t.Errorf("reason not trimmed: %q", action.Reason)
	}

	// defensive copy
	meta["source"] = "mutated"
	if action.Metadata["source"] != "dashboard" {
		t.Errorf("metadata aliased caller's map")
	}

	if err := action.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewActionErrors(t *testing.T) {
	if _, err := New("", "admin-1", ActionApprove, "", nil); !errors.Is(err, ErrRideIDRequired) {
		t.Errorf("err = %v, want ErrRideIDRequired", err)
	}
	if _, err := New("ride-1", "  ", ActionApprove, "", nil); !errors.Is(err, ErrAdminIDRequired) {
		t.Errorf("err = %v, want ErrAdminIDRequired", err)
	}
	if _, err := New("ride-1", "admin-1", ActionType("promote"), "", nil); !errors.Is(err, ErrInvalidActionType) {
		t.Errorf("err = %v, want ErrInvalidActionType", err)
	}
}

func TestWithTransition(t *testing.T) {
	action, err := New("ride-1", "admin-1", ActionReject, "no budget", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	action.WithTransition(ride.StatusPending, ride.StatusRejected)
	if action.PreviousStatus == nil || *action.PreviousStatus != ride.StatusPending {
		t.Errorf("previous status = %v", action.PreviousStatus)
	}
	if action.NewStatus == nil || *action.NewStatus != ride.StatusRejected {
		t.Errorf("new status = %v", action.NewStatus)
	}
	if err := action.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseActionType(t *testing.T) {
	if got, err := ParseActionType("  Assign_Driver "); err != nil || got != ActionAssignDriver {
		t.Fatalf("ParseActionType: %v %v", got, err)
	}
	if _, err := ParseActionType("delete"); !errors.Is(err, ErrInvalidActionType) {
		t.Fatalf("err = %v, want ErrInvalidActionType", err)
	}
}
