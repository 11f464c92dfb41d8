package service

import (
	"context"
	"strings"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"
)

// ListAllRides returns one page of rides across all requesters, newest first.
func (service *adminService) ListAllRides(ctx context.Context, actor ports.Actor, q ports.AdminRideQuery) (ports.RideListResult, error) {
	if !actor.Role.IsAdmin() {
		return ports.RideListResult{}, ride.ErrForbidden
	}

	filter := ports.RideFilter{
		RequesterID: strings.TrimSpace(q.RequesterID),
		DateFrom:    q.DateFrom,
		DateTo:      q.DateTo,
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
	if q.Purpose != "" {
		purpose, err := ride.ParsePurpose(q.Purpose)
		if err != nil {
			return ports.RideListResult{}, err
		}
		filter.Purpose = &purpose
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

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
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
	}, nil
}
