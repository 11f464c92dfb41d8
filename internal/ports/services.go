package ports

import (
	"context"
	"time"

	"corpride/internal/domain/adminaction"
	"corpride/internal/domain/ride"
	"corpride/internal/domain/user"
)

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   user.Role
}

// RequestContext carries network details captured at the HTTP boundary so the
// audit ledger can record who acted from where.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

// ----- DTOs for Ride Service -----

// LocationInput is one end of an itinerary as submitted by the caller.
type LocationInput struct {
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Instructions string  `json:"instructions,omitempty"`
}

// CreateRideInput is the validated input required to create a ride.
type CreateRideInput struct {
	Pickup        LocationInput
	Drop          LocationInput
	RideDate      time.Time
	PickupTime    string
	DropTime      string
	RideType      string
	RecurringDays []string
	Purpose       string
	Priority      string
	Notes         string
}

// DriverView is the driver assignment as exposed over the API.
type DriverView struct {
	DriverID      string `json:"driver_id"`
	DriverName    string `json:"driver_name"`
	VehicleNumber string `json:"vehicle_number"`
	PhoneNumber   string `json:"phone_number"`
}

// RideView is the API representation of a ride.
type RideView struct {
	RideID                   string         `json:"ride_id"`
	RequesterID              string         `json:"requester_id"`
	Pickup                   LocationInput  `json:"pickup"`
	Drop                     LocationInput  `json:"drop"`
	RideDate                 time.Time      `json:"ride_date"`
	PickupTime               string         `json:"pickup_time"`
	DropTime                 string         `json:"drop_time"`
	RideType                 string         `json:"ride_type"`
	RecurringDays            []string       `json:"recurring_days,omitempty"`
	Purpose                  string         `json:"purpose"`
	Priority                 string         `json:"priority"`
	EstimatedDistanceKM      float64        `json:"estimated_distance_km"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
	EstimatedFare            float64        `json:"estimated_fare"`
	ActualFare               float64        `json:"actual_fare,omitempty"`
	Status                   string         `json:"status"`
	Driver                   *DriverView    `json:"driver,omitempty"`
	Notes                    string         `json:"notes,omitempty"`
	CancellationReason       *string        `json:"cancellation_reason,omitempty"`
	CancelledBy              *string        `json:"cancelled_by,omitempty"`
	CancelledAt              *time.Time     `json:"cancelled_at,omitempty"`
	CompletedAt              *time.Time     `json:"completed_at,omitempty"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
}

// NewRideView maps a domain ride to its API representation.
func NewRideView(r *ride.Ride) RideView {
	days := make([]string, 0, len(r.RecurringDays))
	for _, d := range r.RecurringDays {
		days = append(days, d.String())
	}
	view := RideView{
		RideID:                   r.ID,
		RequesterID:              r.RequesterID,
		Pickup:                   locationInput(r.Pickup),
		Drop:                     locationInput(r.Drop),
		RideDate:                 r.RideDate,
		PickupTime:               r.PickupTime,
		DropTime:                 r.DropTime,
		RideType:                 r.Type.String(),
		RecurringDays:            days,
		Purpose:                  r.Purpose.String(),
		Priority:                 r.Priority.String(),
		EstimatedDistanceKM:      r.EstimatedDistanceKM,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		EstimatedFare:            r.EstimatedFare,
		ActualFare:               r.ActualFare,
		Status:                   r.Status.String(),
		Notes:                    r.Notes,
		CancellationReason:       r.CancellationReason,
		CancelledBy:              r.CancelledBy,
		CancelledAt:              r.CancelledAt,
		CompletedAt:              r.CompletedAt,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
	if r.Driver != nil {
		view.Driver = &DriverView{
			DriverID:      r.Driver.DriverID,
			DriverName:    r.Driver.DriverName,
			VehicleNumber: r.Driver.VehicleNumber,
			PhoneNumber:   r.Driver.PhoneNumber,
		}
	}
	return view
}

func locationInput(loc ride.Location) LocationInput {
	return LocationInput{
		Address:      loc.Address,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		Instructions: loc.Instructions,
	}
}

// RideListResult is a paginated page of rides.
type RideListResult struct {
	Rides      []RideView `json:"rides"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

// UserRideQuery filters a requester's own ride listing.
type UserRideQuery struct {
	Status   string
	RideType string
	Page     int
	Limit    int
}

// ----- Ride Service Interface -----

// RideService exposes the boundary for the ride service.
type RideService interface {
	CreateRide(ctx context.Context, actor Actor, in CreateRideInput) (RideView, error)
	ListUserRides(ctx context.Context, actor Actor, q UserRideQuery) (RideListResult, error)
	GetRide(ctx context.Context, actor Actor, rideID string) (RideView, error)
	CancelRide(ctx context.Context, actor Actor, rideID, reason string) (RideView, error)
	RunBackgroundConsumers(ctx context.Context)
}

// ---------------------------------------------------------------------------------------------------------------

// ----- DTOs for Admin Service -----

// AdminRideQuery filters the admin-wide ride listing.
type AdminRideQuery struct {
	Status      string
	RideType    string
	Purpose     string
	RequesterID string
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	Limit       int
}

// UpdateRideStatusInput is the validated input for PATCH /admin/rides/{ride_id}/status.
type UpdateRideStatusInput struct {
	RideID    string
	NewStatus string
	Reason    string
	Request   RequestContext
}

// AssignDriverInput is the validated input for POST /admin/rides/{ride_id}/driver.
type AssignDriverInput struct {
	RideID        string
	DriverID      string
	DriverName    string
	VehicleNumber string
	PhoneNumber   string
	Request       RequestContext
}

// AnalyticsInput bounds an admin analytics query.
type AnalyticsInput struct {
	StartDate time.Time
	EndDate   time.Time
	GroupBy   string
}

// AnalyticsResult is the response DTO for GET /admin/analytics.
type AnalyticsResult struct {
	GroupBy   string            `json:"group_by"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Buckets   []AnalyticsBucket `json:"buckets"`
}

// ActionView is the API representation of one audit ledger entry.
type ActionView struct {
	ActionID       string         `json:"action_id"`
	RideID         string         `json:"ride_id"`
	AdminID        string         `json:"admin_id"`
	Action         string         `json:"action"`
	Reason         string         `json:"reason,omitempty"`
	PreviousStatus *string        `json:"previous_status,omitempty"`
	NewStatus      *string        `json:"new_status,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	IPAddress      string         `json:"ip_address,omitempty"`
	UserAgent      string         `json:"user_agent,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewActionView maps a ledger entry to its API representation.
func NewActionView(a *adminaction.Action) ActionView {
	view := ActionView{
		ActionID:  a.ID,
		RideID:    a.RideID,
		AdminID:   a.AdminID,
		Action:    a.Type.String(),
		Reason:    a.Reason,
		Metadata:  a.Metadata,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
		CreatedAt: a.CreatedAt,
	}
	if a.PreviousStatus != nil {
		s := a.PreviousStatus.String()
		view.PreviousStatus = &s
	}
	if a.NewStatus != nil {
		s := a.NewStatus.String()
		view.NewStatus = &s
	}
	return view
}

// ActionListResult is a paginated page of audit ledger entries, newest first.
type ActionListResult struct {
	Actions    []ActionView `json:"actions"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

// ----- Admin Service Interface -----

// AdminService exposes review, dispatch and analytics operations for administrators.
type AdminService interface {
	ListAllRides(ctx context.Context, actor Actor, q AdminRideQuery) (RideListResult, error)
	UpdateRideStatus(ctx context.Context, actor Actor, in UpdateRideStatusInput) (RideView, error)
	AssignDriver(ctx context.Context, actor Actor, in AssignDriverInput) (RideView, error)
	GetAnalytics(ctx context.Context, actor Actor, in AnalyticsInput) (AnalyticsResult, error)
	ListRideActions(ctx context.Context, actor Actor, rideID string, page, limit int) (ActionListResult, error)
	ListAdminActions(ctx context.Context, actor Actor, adminID string, page, limit int) (ActionListResult, error)
}

// ---------------------------------------------------------------------------------------------------------------

// ----- DTOs for Auth Service -----

// RegisterInput is the validated input for POST /auth/register.
type RegisterInput struct {
	Name       string
	Email      string
	EmployeeID string
	Department string
	Role       string
	Password   string
}

// LoginInput is the validated input for POST /auth/login.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult matches the API response for register and login.
type AuthResult struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// ----- Auth Service Interface -----

// AuthService handles account registration and credential checks.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
}
