package ride

import (
	"errors"
	"testing"
	"time"
)

func validPickup() Location {
	return Location{Address: "Andheri East, Mumbai", Latitude: 19.1136, Longitude: 72.8697}
}

func validDrop() Location {
	return Location{Address: "BKC, Mumbai", Latitude: 19.0662, Longitude: 72.8693}
}

func TestNewRideHappyPath(t *testing.T) {
	date := time.Now().Add(48 * time.Hour)
	r, err := NewRide("emp-1", validPickup(), validDrop(), date,
		"09:30", "10:15", TypeOneTime, nil, PurposeOffice, PriorityMedium, "  gate 2  ")
	if err != nil {
		t.Fatalf("NewRide: %v", err)
	}
	if r.Status != StatusPending {
		t.Errorf("new ride status = %s, want pending", r.Status)
	}
	if r.EstimatedFare < BaseFare {
		t.Errorf("fare %v below base fare", r.EstimatedFare)
	}
	if r.EstimatedDistanceKM <= 0 || r.EstimatedDurationMinutes <= 0 {
		t.Errorf("estimate not populated: %v km, %v min", r.EstimatedDistanceKM, r.EstimatedDurationMinutes)
	}
	if r.Notes != "gate 2" {
		t.Errorf("notes not trimmed: %q", r.Notes)
	}
}

func TestNewRideRejectsPastDate(t *testing.T) {
	_, err := NewRide("emp-1", validPickup(), validDrop(), time.Now().Add(-time.Minute),
		"09:30", "10:15", TypeOneTime, nil, PurposeOffice, PriorityMedium, "")
	if !errors.Is(err, ErrPastRideDate) {
		t.Fatalf("err = %v, want ErrPastRideDate", err)
	}
}

func TestNewRideValidation(t *testing.T) {
	date := time.Now().Add(48 * time.Hour)
	badLat := validPickup()
	badLat.Latitude = 91
	badLng := validDrop()
	badLng.Longitude = -181
	noAddr := validPickup()
	noAddr.Address = "   "

	tests := []struct {
		name       string
		requester  string
		pickup     Location
		drop       Location
		pickupTime string
		wantErr    error
	}{
		{"empty_requester", "  ", validPickup(), validDrop(), "09:30", ErrRequesterRequired},
		{"lat_out_of_range", "emp-1", badLat, validDrop(), "09:30", ErrInvalidLatitude},
		{"lng_out_of_range", "emp-1", validPickup(), badLng, "09:30", ErrInvalidLongitude},
		{"blank_address", "emp-1", noAddr, validDrop(), "09:30", ErrEmptyAddress},
		{"bad_clock_time", "emp-1", validPickup(), validDrop(), "25:00", ErrInvalidTimeOfDay},
		{"not_a_time", "emp-1", validPickup(), validDrop(), "morning", ErrInvalidTimeOfDay},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRide(tc.requester, tc.pickup, tc.drop, date,
				tc.pickupTime, "10:15", TypeOneTime, nil, PurposeOffice, PriorityMedium, "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateLifecycleAuditFields(t *testing.T) {
	now := time.Now().UTC()
	base := func() *Ride {
		r, err := NewRide("emp-1", validPickup(), validDrop(), now.Add(48*time.Hour),
			"09:30", "10:15", TypeOneTime, nil, PurposeOffice, PriorityMedium, "")
		if err != nil {
			t.Fatalf("NewRide: %v", err)
		}
		return r
	}
	reason := "change of plans"
	by := "emp-1"

	tests := []struct {
		name    string
		mutate  func(*Ride)
		wantErr error
	}{
		{"cancelled_with_audit", func(r *Ride) {
			r.Status = StatusCancelled
			r.CancelledAt = &now
			r.CancelledBy = &by
			r.CancellationReason = &reason
		}, nil},
		{"cancelled_without_reason", func(r *Ride) {
			r.Status = StatusCancelled
			r.CancelledAt = &now
			r.CancelledBy = &by
		}, nil},
		{"completed_with_timestamp", func(r *Ride) {
			r.Status = StatusCompleted
			r.CompletedAt = &now
		}, nil},
		{"cancelled_without_timestamp", func(r *Ride) {
			r.Status = StatusCancelled
		}, ErrBadLifecycleAudit},
		{"pending_with_cancelled_at", func(r *Ride) {
			r.CancelledAt = &now
		}, ErrBadLifecycleAudit},
		{"pending_with_reason", func(r *Ride) {
			r.CancellationReason = &reason
		}, ErrBadLifecycleAudit},
		{"approved_with_cancelled_by", func(r *Ride) {
			r.Status = StatusApproved
			r.CancelledBy = &by
		}, ErrBadLifecycleAudit},
		{"completed_without_timestamp", func(r *Ride) {
			r.Status = StatusCompleted
		}, ErrBadLifecycleAudit},
		{"pending_with_completed_at", func(r *Ride) {
			r.CompletedAt = &now
		}, ErrBadLifecycleAudit},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := base()
			tc.mutate(r)
			if err := r.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidTimeOfDay(t *testing.T) {
	good := []string{"00:00", "9:05", "09:05", "23:59", "12:30"}
	bad := []string{"24:00", "23:60", "9:5", "0930", "", "aa:bb", "12:30:00"}
	for _, s := range good {
		if !ValidTimeOfDay(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range bad {
		if ValidTimeOfDay(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestNormalizeWeekdays(t *testing.T) {
	days, err := NormalizeWeekdays([]string{"Monday", " friday ", "monday", "WEDNESDAY"})
	if err != nil {
		t.Fatalf("NormalizeWeekdays: %v", err)
	}
	want := []Weekday{Monday, Friday, Wednesday}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, days[i], want[i])
		}
	}

	if _, err := NormalizeWeekdays([]string{"funday"}); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("err = %v, want ErrInvalidWeekday", err)
	}
}
