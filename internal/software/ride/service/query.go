package service

import (
	"context"
	"strings"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"
)

// ListUserRides returns one page of the actor's own rides, newest first.
func (service *rideService) ListUserRides(ctx context.Context, actor ports.Actor, q ports.UserRideQuery) (ports.RideListResult, error) {
	filter := ports.RideFilter{
		RequesterID: actor.UserID,
		Page:        q.Page,
		Limit:       q.Limit,
	}

	if q.Status != "" {
		status, err := ride.ParseStatus(q.Status)
		if err != nil {
			return ports.RideListResult{}, err
		}
		filter.Status = &status
	}
	if q.RideType != "" {
		rideType, err := ride.ParseType(q.RideType)
		if err != nil {
			return ports.RideListResult{}, err
		}
		filter.Type = &rideType
	}

	var (
		rides []*ride.Ride
		total int
	)
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		rides, total, err = service.rideRepo.List(txCtx, filter)
		return err
	})
	if err != nil {
		return ports.RideListResult{}, err
	}

	return toListResult(rides, total, filter.Page, filter.Limit), nil
}

// GetRide returns a single ride. Employees may only read their own rides;
// admins may read any.
func (service *rideService) GetRide(ctx context.Context, actor ports.Actor, rideID string) (ports.RideView, error) {
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return ports.RideView{}, ride.ErrNotFound
	}

	var r *ride.Ride
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		r, err = service.rideRepo.GetByID(txCtx, rideID)
		return err
	})
	if err != nil {
		return ports.RideView{}, err
	}

	if r.RequesterID != actor.UserID && !actor.Role.IsAdmin() {
		return ports.RideView{}, ride.ErrForbidden
	}

	return ports.NewRideView(r), nil
}

func toListResult(rides []*ride.Ride, total, page, limit int) ports.RideListResult {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	views := make([]ports.RideView, 0, len(rides))
	for _, r := range rides {
		views = append(views, ports.NewRideView(r))
	}
	return ports.RideListResult{
		Rides:      views,
		TotalCount: total,
		Page:       page,
		PageSize:   limit,
	}
}
