package ride

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Location is one end of an itinerary: a street address with plain
// latitude/longitude and optional free-text instructions for the driver.
type Location struct {
	Address      string
	Latitude     float64
	Longitude    float64
	Instructions string
}

// DriverInfo is the driver assignment attached once a ride is approved.
// It is stored on the ride but never influences status transitions.
type DriverInfo struct {
	DriverID      string
	DriverName    string
	VehicleNumber string
	PhoneNumber   string
}

// Ride is the domain entity corresponding to the `rides` table.
type Ride struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner
	RequesterID string

	// Itinerary
	Pickup Location
	Drop   Location

	// Scheduling. PickupTime and DropTime are plain "HH:MM" strings and are
	// deliberately not reconciled with RideDate's own time component.
	RideDate   time.Time
	PickupTime string
	DropTime   string

	// Classification
	Type          Type
	RecurringDays []Weekday
	Purpose       Purpose
	Priority      Priority

	// Computed economics
	EstimatedDistanceKM      float64
	EstimatedDurationMinutes int
	EstimatedFare            float64
	ActualFare               float64

	// Lifecycle
	Status Status

	// Driver assignment (set by administrators after approval)
	Driver *DriverInfo

	// Free text
	Notes string

	// Cancellation / completion audit fields
	CancellationReason *string
	CancelledBy        *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time
}

var (
	ErrNotFound          = errors.New("ride not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCannotCancel      = errors.New("ride cannot be cancelled")
	ErrPastRideDate      = errors.New("ride date cannot be in the past")
	ErrForbidden         = errors.New("not allowed to perform this ride operation")

	ErrRequesterRequired = errors.New("requester id is required")
	ErrEmptyAddress      = errors.New("address cannot be empty")
	ErrInvalidLatitude   = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude  = errors.New("longitude must be between -180 and 180")
	ErrInvalidTimeOfDay  = errors.New("time must be in HH:MM format")
	ErrNegativeFare      = errors.New("estimated fare cannot be negative")
	ErrDriverIDRequired  = errors.New("driver id is required")
	ErrBadTimestamps     = errors.New("updated_at cannot be before created_at")
	ErrBadLifecycleAudit = errors.New("cancellation and completion fields must match status")
)

var timeOfDayPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is a well-formed "HH:MM" clock time.
func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// NewRide creates a new ride in pending state with its economics populated
// from the itinerary. The ride date must be strictly in the future at the
// moment of creation.
func NewRide(
	requesterID string,
	pickup, drop Location,
	rideDate time.Time,
	pickupTime, dropTime string,
	rideType Type,
	recurringDays []Weekday,
	purpose Purpose,
	priority Priority,
	notes string,
) (*Ride, error) {
	now := time.Now().UTC()
	if requesterID = strings.TrimSpace(requesterID); requesterID == "" {
		return nil, ErrRequesterRequired
	}
	if !rideDate.After(now) {
		return nil, ErrPastRideDate
	}

	est := EstimateTrip(pickup, drop)

	r := &Ride{
		CreatedAt:                now,
		UpdatedAt:                now,
		RequesterID:              requesterID,
		Pickup:                   trimLocation(pickup),
		Drop:                     trimLocation(drop),
		RideDate:                 rideDate.UTC(),
		PickupTime:               strings.TrimSpace(pickupTime),
		DropTime:                 strings.TrimSpace(dropTime),
		Type:                     rideType,
		RecurringDays:            recurringDays,
		Purpose:                  purpose,
		Priority:                 priority,
		EstimatedDistanceKM:      est.DistanceKM,
		EstimatedDurationMinutes: est.DurationMinutes,
		EstimatedFare:            est.Fare,
		Status:                   StatusPending,
		Notes:                    strings.TrimSpace(notes),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks invariants of the Ride entity. Coordinate ranges and time
// fields are re-checked here even though the HTTP boundary validates them
// first.
func (r *Ride) Validate() error {
	if strings.TrimSpace(r.RequesterID) == "" {
		return ErrRequesterRequired
	}
	if err := validateLocation(r.Pickup); err != nil {
		return err
	}
	if err := validateLocation(r.Drop); err != nil {
		return err
	}
	if !ValidTimeOfDay(r.PickupTime) || !ValidTimeOfDay(r.DropTime) {
		return ErrInvalidTimeOfDay
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	for _, day := range r.RecurringDays {
		if !day.Valid() {
			return ErrInvalidWeekday
		}
	}
	if !r.Purpose.Valid() {
		return ErrInvalidPurpose
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	if r.EstimatedDistanceKM < 0 || r.EstimatedDurationMinutes < 0 {
		return ErrNegativeFare
	}
	if r.EstimatedFare < BaseFare {
		return ErrNegativeFare
	}
	if !r.CreatedAt.IsZero() && !r.UpdatedAt.IsZero() && r.UpdatedAt.Before(r.CreatedAt) {
		return ErrBadTimestamps
	}

	// Lifecycle audit fields follow the status. CancellationReason is optional
	// even on cancelled rides, but must never appear on any other status.
	cancelled := r.Status == StatusCancelled
	if (r.CancelledAt != nil) != cancelled {
		return ErrBadLifecycleAudit
	}
	if !cancelled && (r.CancellationReason != nil || r.CancelledBy != nil) {
		return ErrBadLifecycleAudit
	}
	if (r.CompletedAt != nil) != (r.Status == StatusCompleted) {
		return ErrBadLifecycleAudit
	}
	return nil
}

// ValidateDriver checks a driver assignment payload.
func ValidateDriver(d DriverInfo) error {
	if strings.TrimSpace(d.DriverID) == "" {
		return ErrDriverIDRequired
	}
	return nil
}

func validateLocation(loc Location) error {
	if strings.TrimSpace(loc.Address) == "" {
		return ErrEmptyAddress
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

func trimLocation(loc Location) Location {
	loc.Address = strings.TrimSpace(loc.Address)
	loc.Instructions = strings.TrimSpace(loc.Instructions)
	return loc
}
