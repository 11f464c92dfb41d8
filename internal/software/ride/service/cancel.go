package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"
)

// CancelRide cancels the actor's own ride, enforcing the pre-ride cutoff.
// The status write is conditional on the status observed in this transaction,
// so a concurrent admin transition cannot be silently overwritten.
func (service *rideService) CancelRide(ctx context.Context, actor ports.Actor, rideID, reason string) (ports.RideView, error) {
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return ports.RideView{}, ride.ErrNotFound
	}

	now := time.Now().UTC()
	var out *ride.Ride

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, rideID)
		if err != nil {
			return err
		}

		if r.RequesterID != actor.UserID && !actor.Role.IsAdmin() {
			return ride.ErrForbidden
		}
		if !ride.CanCancelAt(r.RideDate, now) {
			return ride.ErrCannotCancel
		}
		if !r.Status.CanTransitionTo(ride.StatusCancelled) {
			return ride.ErrInvalidTransition
		}

		applied, err := service.rideRepo.Cancel(txCtx, rideID, r.Status, reason, actor.UserID, now)
		if err != nil {
			return err
		}
		if !applied {
			// lost a race: the observed status is stale
			return ride.ErrInvalidTransition
		}

		out, err = service.rideRepo.GetByID(txCtx, rideID)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "ride_cancel_failed", "Failed to cancel ride", err, map[string]any{
			"ride_id":      rideID,
			"requester_id": actor.UserID,
		})
		return ports.RideView{}, err
	}

	service.logger.Info(ctx, "ride_cancelled", fmt.Sprintf("Ride %s cancelled", rideID), map[string]any{
		"ride_id": rideID,
		"reason":  reason,
	})

	return ports.NewRideView(out), nil
}
