package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"corpride/internal/domain/adminaction"
	"corpride/internal/domain/ride"
	"corpride/internal/general/contracts"
	"corpride/internal/ports"
)

// UpdateRideStatus applies an administrative status transition. The update is
// conditional on the status observed in this transaction: when two admins race
// on the same ride, exactly one transition lands and exactly one ledger entry
// is written; the loser gets ErrInvalidTransition.
func (service *adminService) UpdateRideStatus(ctx context.Context, actor ports.Actor, in ports.UpdateRideStatusInput) (ports.RideView, error) {
	if !actor.Role.IsAdmin() {
		return ports.RideView{}, ride.ErrForbidden
	}

	rideID := strings.TrimSpace(in.RideID)
	if rideID == "" {
		return ports.RideView{}, ride.ErrNotFound
	}

	newStatus, err := ride.ParseStatus(in.NewStatus)
	if err != nil {
		return ports.RideView{}, err
	}
	if newStatus == ride.StatusPending {
		return ports.RideView{}, ride.ErrInvalidTransition
	}

	now := time.Now().UTC()
	var (
		out  *ride.Ride
		from ride.Status
	)

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, rideID)
		if err != nil {
			return err
		}
		from = r.Status

		if !from.CanTransitionTo(newStatus) {
			return ride.ErrInvalidTransition
		}

		var applied bool
		if newStatus == ride.StatusCancelled {
			applied, err = service.rideRepo.Cancel(txCtx, rideID, from, in.Reason, actor.UserID, now)
		} else {
			applied, err = service.rideRepo.TransitionStatus(txCtx, rideID, from, newStatus, now)
		}
		if err != nil {
			return err
		}
		if !applied {
			return ride.ErrInvalidTransition
		}

		entry, err := adminaction.New(rideID, actor.UserID, actionTypeFor(newStatus), in.Reason, nil)
		if err != nil {
			return err
		}
		entry.WithTransition(from, newStatus)
		entry.WithRequestContext(in.Request.IPAddress, in.Request.UserAgent)
		if err := service.actionRepo.Append(txCtx, entry); err != nil {
			return err
		}

		out, err = service.rideRepo.GetByID(txCtx, rideID)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "ride_status_update_failed", "Failed to update ride status", err, map[string]any{
			"ride_id":    rideID,
			"admin_id":   actor.UserID,
			"new_status": in.NewStatus,
		})
		return ports.RideView{}, err
	}

	service.logger.Info(ctx, "ride_status_updated",
		fmt.Sprintf("Ride %s moved from %s to %s", rideID, from, newStatus),
		map[string]any{"ride_id": rideID, "admin_id": actor.UserID})

	service.publishRideStatus(ctx, contracts.RideStatusMessage{
		RideID:         rideID,
		RequesterID:    out.RequesterID,
		PreviousStatus: from.String(),
		Status:         newStatus.String(),
		Reason:         in.Reason,
		Timestamp:      now,
		Envelope: contracts.Envelope{
			CorrelationID: generateCorrelationID(),
			Producer:      "admin-service",
			SentAt:        time.Now().UTC(),
		},
	})

	return ports.NewRideView(out), nil
}

// actionTypeFor maps the target status onto the ledger action vocabulary.
func actionTypeFor(to ride.Status) adminaction.ActionType {
	switch to {
	case ride.StatusApproved:
		return adminaction.ActionApprove
	case ride.StatusRejected:
		return adminaction.ActionReject
	case ride.StatusCancelled:
		return adminaction.ActionCancel
	default:
		return adminaction.ActionModify
	}
}
