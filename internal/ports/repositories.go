package ports

import (
	"context"
	"time"

	"corpride/internal/domain/adminaction"
	"corpride/internal/domain/ride"
	"corpride/internal/domain/user"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the methods for managing user data.
type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// RideFilter narrows ride listings. Nil pointer fields mean "no constraint".
type RideFilter struct {
	RequesterID string
	Status      *ride.Status
	Type        *ride.Type
	Purpose     *ride.Purpose
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	Limit       int
}

// GroupBy selects the analytics bucketing dimension.
type GroupBy string

const (
	GroupByDate    GroupBy = "date"
	GroupByStatus  GroupBy = "status"
	GroupByPurpose GroupBy = "purpose"
)

// Valid reports whether g is one of the supported grouping dimensions.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDate, GroupByStatus, GroupByPurpose:
		return true
	default:
		return false
	}
}

// AnalyticsQuery bounds an aggregation scan by ride date, inclusive on both ends.
type AnalyticsQuery struct {
	From    time.Time
	To      time.Time
	GroupBy GroupBy
}

// AnalyticsBucket is one grouped summary row. Key is a calendar day
// ("2026-08-31") for date grouping, an enum value otherwise.
type AnalyticsBucket struct {
	Key                string  `json:"key"`
	Count              int     `json:"count"`
	TotalEstimatedFare float64 `json:"total_estimated_fare"`
	TotalActualFare    float64 `json:"total_actual_fare"`
}

// RideRepository defines the methods for managing ride data.
//
// TransitionStatus and Cancel are conditional writes keyed by the caller's
// observed current status: when two actors race on the same ride, at most one
// call reports applied=true and the loser must treat its observation as stale.
type RideRepository interface {
	CreateRide(ctx context.Context, r *ride.Ride) error
	GetByID(ctx context.Context, id string) (*ride.Ride, error)
	List(ctx context.Context, f RideFilter) ([]*ride.Ride, int, error)
	TransitionStatus(ctx context.Context, id string, from, to ride.Status, at time.Time) (applied bool, err error)
	Cancel(ctx context.Context, id string, from ride.Status, reason, cancelledBy string, at time.Time) (applied bool, err error)
	SetDriver(ctx context.Context, id string, d ride.DriverInfo, at time.Time) (applied bool, err error)
	Aggregate(ctx context.Context, q AnalyticsQuery) ([]AnalyticsBucket, error)
}

// AdminActionRepository defines methods for the append-only admin audit ledger.
// Listings are ordered newest-first.
type AdminActionRepository interface {
	Append(ctx context.Context, a *adminaction.Action) error
	ListByRide(ctx context.Context, rideID string, page, limit int) ([]*adminaction.Action, int, error)
	ListByAdmin(ctx context.Context, adminID string, page, limit int) ([]*adminaction.Action, int, error)
}
