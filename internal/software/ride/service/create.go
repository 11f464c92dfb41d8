package service

import (
	"context"
	"fmt"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"
)

// CreateRide validates the itinerary, prices it, and persists a pending ride.
func (service *rideService) CreateRide(ctx context.Context, actor ports.Actor, in ports.CreateRideInput) (ports.RideView, error) {
	rideType, err := ride.ParseType(in.RideType)
	if err != nil {
		return ports.RideView{}, err
	}

	var days []ride.Weekday
	if rideType == ride.TypeRecurring {
		days, err = ride.NormalizeWeekdays(in.RecurringDays)
		if err != nil {
			return ports.RideView{}, err
		}
	}

	purpose := ride.PurposeOffice
	if in.Purpose != "" {
		if purpose, err = ride.ParsePurpose(in.Purpose); err != nil {
			return ports.RideView{}, err
		}
	}
	priority := ride.PriorityMedium
	if in.Priority != "" {
		if priority, err = ride.ParsePriority(in.Priority); err != nil {
			return ports.RideView{}, err
		}
	}

	r, err := ride.NewRide(
		actor.UserID,
		toLocation(in.Pickup),
		toLocation(in.Drop),
		in.RideDate,
		in.PickupTime,
		in.DropTime,
		rideType,
		days,
		purpose,
		priority,
		in.Notes,
	)
	if err != nil {
		return ports.RideView{}, err
	}

	// the ride row is written fully formed in one insert, so a concurrent
	// analytics scan never sees a partial ride
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.rideRepo.CreateRide(txCtx, r)
	})
	if err != nil {
		service.logger.Error(ctx, "ride_create_failed", "Failed to create ride", err, map[string]any{
			"requester_id": actor.UserID,
		})
		return ports.RideView{}, err
	}

	service.logger.Info(ctx, "ride_created", fmt.Sprintf("Ride %s created", r.ID), map[string]any{
		"ride_id":        r.ID,
		"requester_id":   actor.UserID,
		"estimated_fare": r.EstimatedFare,
		"distance_km":    r.EstimatedDistanceKM,
	})

	return ports.NewRideView(r), nil
}

func toLocation(in ports.LocationInput) ride.Location {
	return ride.Location{
		Address:      in.Address,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Instructions: in.Instructions,
	}
}
