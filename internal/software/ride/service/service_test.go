package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"corpride/internal/domain/ride"
	"corpride/internal/domain/user"
	"corpride/internal/general/logger"
	"corpride/internal/ports"
)

func newTestService(repo *memRideRepo) ports.RideService {
	return NewRideService(logger.New("ride-service-test"), memUnitOfWork{}, repo, nil, nil)
}

func validCreateInput(date time.Time) ports.CreateRideInput {
	return ports.CreateRideInput{
		Pickup: ports.LocationInput{
			Address:   "Bandra Kurla Complex, Mumbai",
			Latitude:  19.0596,
			Longitude: 72.8656,
		},
		Drop: ports.LocationInput{
			Address:   "Chhatrapati Shivaji Airport, Mumbai",
			Latitude:  19.0896,
			Longitude: 72.8656,
		},
		RideDate:   date,
		PickupTime: "09:30",
		DropTime:   "10:15",
		RideType:   "one-time",
		Purpose:    "airport",
		Priority:   "high",
		Notes:      "  terminal 2 departure  ",
	}
}

func TestCreateRideStartsPendingWithEstimate(t *testing.T) {
	repo := newMemRideRepo()
	svc := newTestService(repo)
	actor := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	view, err := svc.CreateRide(context.Background(), actor, validCreateInput(time.Now().UTC().Add(48*time.Hour)))
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	if view.Status != "pending" {
		t.Errorf("status = %q, want pending", view.Status)
	}
	if view.RequesterID != "emp-1" {
		t.Errorf("requester = %q, want emp-1", view.RequesterID)
	}
	if view.EstimatedDistanceKM <= 0 {
		t.Errorf("distance = %v, want > 0", view.EstimatedDistanceKM)
	}
	if view.EstimatedFare < ride.BaseFare {
		t.Errorf("fare = %v, want >= base fare %v", view.EstimatedFare, ride.BaseFare)
	}
	if view.Notes != "terminal 2 departure" {
		t.Errorf("notes = %q, want trimmed", view.Notes)
	}

	stored, err := repo.GetByID(context.Background(), view.RideID)
	if err != nil {
		t.Fatalf("GetByID after create: %v", err)
	}
	if stored.Status != ride.StatusPending {
		t.Errorf("stored status = %q, want pending", stored.Status)
	}
}

func TestCreateRideRejectsPastDate(t *testing.T) {
	svc := newTestService(newMemRideRepo())
	actor := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	_, err := svc.CreateRide(context.Background(), actor, validCreateInput(time.Now().UTC().Add(-time.Hour)))
	if !errors.Is(err, ride.ErrPastRideDate) {
		t.Fatalf("err = %v, want ErrPastRideDate", err)
	}
}

func TestCreateRideRecurringKeepsWeekdays(t *testing.T) {
	svc := newTestService(newMemRideRepo())
	actor := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	in := validCreateInput(time.Now().UTC().Add(48 * time.Hour))
	in.RideType = "recurring"
	in.RecurringDays = []string{"Monday", "wednesday", "monday"}

	view, err := svc.CreateRide(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	want := []string{"monday", "wednesday"}
	if len(view.RecurringDays) != len(want) {
		t.Fatalf("recurring days = %v, want %v", view.RecurringDays, want)
	}
	for i, d := range want {
		if view.RecurringDays[i] != d {
			t.Errorf("recurring days[%d] = %q, want %q", i, view.RecurringDays[i], d)
		}
	}
}

func TestGetRideOwnership(t *testing.T) {
	repo := newMemRideRepo()
	svc := newTestService(repo)
	owner := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	view, err := svc.CreateRide(context.Background(), owner, validCreateInput(time.Now().UTC().Add(48*time.Hour)))
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	if _, err := svc.GetRide(context.Background(), owner, view.RideID); err != nil {
		t.Errorf("owner GetRide: %v", err)
	}

	stranger := ports.Actor{UserID: "emp-2", Role: user.RoleEmployee}
	if _, err := svc.GetRide(context.Background(), stranger, view.RideID); !errors.Is(err, ride.ErrForbidden) {
		t.Errorf("stranger GetRide err = %v, want ErrForbidden", err)
	}

	admin := ports.Actor{UserID: "adm-1", Role: user.RoleAdmin}
	if _, err := svc.GetRide(context.Background(), admin, view.RideID); err != nil {
		t.Errorf("admin GetRide: %v", err)
	}

	if _, err := svc.GetRide(context.Background(), owner, "missing"); !errors.Is(err, ride.ErrNotFound) {
		t.Errorf("missing GetRide err = %v, want ErrNotFound", err)
	}
}

func TestListUserRidesFiltersByOwner(t *testing.T) {
	repo := newMemRideRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	date := time.Now().UTC().Add(48 * time.Hour)

	first := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}
	second := ports.Actor{UserID: "emp-2", Role: user.RoleEmployee}
	if _, err := svc.CreateRide(ctx, first, validCreateInput(date)); err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	if _, err := svc.CreateRide(ctx, first, validCreateInput(date)); err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	if _, err := svc.CreateRide(ctx, second, validCreateInput(date)); err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	result, err := svc.ListUserRides(ctx, first, ports.UserRideQuery{})
	if err != nil {
		t.Fatalf("ListUserRides: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("total = %d, want 2", result.TotalCount)
	}
	for _, r := range result.Rides {
		if r.RequesterID != "emp-1" {
			t.Errorf("listed ride belongs to %q", r.RequesterID)
		}
	}

	filtered, err := svc.ListUserRides(ctx, first, ports.UserRideQuery{Status: "cancelled"})
	if err != nil {
		t.Fatalf("ListUserRides with filter: %v", err)
	}
	if filtered.TotalCount != 0 {
		t.Errorf("cancelled total = %d, want 0", filtered.TotalCount)
	}
}

func TestCancelRideEnforcesCutoff(t *testing.T) {
	repo := newMemRideRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	actor := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	// ride one hour out is inside the two hour cutoff
	soon, err := svc.CreateRide(ctx, actor, validCreateInput(time.Now().UTC().Add(time.Hour)))
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	if _, err := svc.CancelRide(ctx, actor, soon.RideID, "change of plans"); !errors.Is(err, ride.ErrCannotCancel) {
		t.Errorf("cancel 1h before err = %v, want ErrCannotCancel", err)
	}

	later, err := svc.CreateRide(ctx, actor, validCreateInput(time.Now().UTC().Add(3*time.Hour)))
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	view, err := svc.CancelRide(ctx, actor, later.RideID, "change of plans")
	if err != nil {
		t.Fatalf("cancel 3h before: %v", err)
	}
	if view.Status != "cancelled" {
		t.Errorf("status = %q, want cancelled", view.Status)
	}
	if view.CancelledAt == nil || view.CancelledBy == nil || *view.CancelledBy != "emp-1" {
		t.Errorf("cancellation audit fields not set: %+v", view)
	}
	if view.CancellationReason == nil || *view.CancellationReason != "change of plans" {
		t.Errorf("cancellation reason not recorded")
	}
}

func TestCancelRideForbiddenForNonOwner(t *testing.T) {
	repo := newMemRideRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	owner := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	view, err := svc.CreateRide(ctx, owner, validCreateInput(time.Now().UTC().Add(3*time.Hour)))
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	stranger := ports.Actor{UserID: "emp-2", Role: user.RoleEmployee}
	if _, err := svc.CancelRide(ctx, stranger, view.RideID, ""); !errors.Is(err, ride.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestCancelRideRejectsTerminalStatus(t *testing.T) {
	repo := newMemRideRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	actor := ports.Actor{UserID: "emp-1", Role: user.RoleEmployee}

	view, err := svc.CreateRide(ctx, actor, validCreateInput(time.Now().UTC().Add(3*time.Hour)))
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	if _, err := svc.CancelRide(ctx, actor, view.RideID, ""); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := svc.CancelRide(ctx, actor, view.RideID, ""); !errors.Is(err, ride.ErrInvalidTransition) {
		t.Errorf("second cancel err = %v, want ErrInvalidTransition", err)
	}
}
