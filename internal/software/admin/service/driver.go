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

// AssignDriver attaches driver details to an approved ride and records the
// assignment in the ledger. The ride status is left untouched.
func (service *adminService) AssignDriver(ctx context.Context, actor ports.Actor, in ports.AssignDriverInput) (ports.RideView, error) {
	if !actor.Role.IsAdmin() {
		return ports.RideView{}, ride.ErrForbidden
	}

	rideID := strings.TrimSpace(in.RideID)
	if rideID == "" {
		return ports.RideView{}, ride.ErrNotFound
	}

	driver := ride.DriverInfo{
		DriverID:      strings.TrimSpace(in.DriverID),
		DriverName:    strings.TrimSpace(in.DriverName),
		VehicleNumber: strings.TrimSpace(in.VehicleNumber),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
	}
	if err := ride.ValidateDriver(driver); err != nil {
		return ports.RideView{}, err
	}

	now := time.Now().UTC()
	var out *ride.Ride

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, rideID)
		if err != nil {
			return err
		}
		if r.Status != ride.StatusApproved {
			return ride.ErrInvalidTransition
		}

		applied, err := service.rideRepo.SetDriver(txCtx, rideID, driver, now)
		if err != nil {
			return err
		}
		if !applied {
			// the ride left approved between the read and the write
			return ride.ErrInvalidTransition
		}

		entry, err := adminaction.New(rideID, actor.UserID, adminaction.ActionAssignDriver, "", map[string]any{
			"driver_id":      driver.DriverID,
			"driver_name":    driver.DriverName,
			"vehicle_number": driver.VehicleNumber,
		})
		if err != nil {
			return err
		}
		entry.WithRequestContext(in.Request.IPAddress, in.Request.UserAgent)
		if err := service.actionRepo.Append(txCtx, entry); err != nil {
			return err
		}

		out, err = service.rideRepo.GetByID(txCtx, rideID)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "driver_assign_failed", "Failed to assign driver", err, map[string]any{
			"ride_id":   rideID,
			"admin_id":  actor.UserID,
			"driver_id": in.DriverID,
		})
		return ports.RideView{}, err
	}

	service.logger.Info(ctx, "driver_assigned",
		fmt.Sprintf("Driver %s assigned to ride %s", driver.DriverID, rideID),
		map[string]any{"ride_id": rideID, "admin_id": actor.UserID})

	service.publishRideStatus(ctx, contracts.RideStatusMessage{
		RideID:         rideID,
		RequesterID:    out.RequesterID,
		PreviousStatus: ride.StatusApproved.String(),
		Status:         ride.StatusApproved.String(),
		DriverID:       driver.DriverID,
		Timestamp:      now,
		Envelope: contracts.Envelope{
			CorrelationID: generateCorrelationID(),
			Producer:      "admin-service",
			SentAt:        time.Now().UTC(),
		},
	})

	return ports.NewRideView(out), nil
}
