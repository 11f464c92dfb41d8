package service

import (
	"context"
	"strings"

	"corpride/internal/domain/adminaction"
	"corpride/internal/domain/ride"
	"corpride/internal/ports"
)

// ListRideActions returns the audit ledger for one ride, newest first.
func (service *adminService) ListRideActions(ctx context.Context, actor ports.Actor, rideID string, page, limit int) (ports.ActionListResult, error) {
	if !actor.Role.IsAdmin() {
		return ports.ActionListResult{}, ride.ErrForbidden
	}
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return ports.ActionListResult{}, ride.ErrNotFound
	}

	return service.listActions(ctx, func(txCtx context.Context, page, limit int) ([]*adminaction.Action, int, error) {
		return service.actionRepo.ListByRide(txCtx, rideID, page, limit)
	}, page, limit)
}

// ListAdminActions returns the audit ledger entries written by one admin,
// newest first.
func (service *adminService) ListAdminActions(ctx context.Context, actor ports.Actor, adminID string, page, limit int) (ports.ActionListResult, error) {
	if !actor.Role.IsAdmin() {
		return ports.ActionListResult{}, ride.ErrForbidden
	}
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		adminID = actor.UserID
	}

	return service.listActions(ctx, func(txCtx context.Context, page, limit int) ([]*adminaction.Action, int, error) {
		return service.actionRepo.ListByAdmin(txCtx, adminID, page, limit)
	}, page, limit)
}

func (service *adminService) listActions(
	ctx context.Context,
	fetch func(ctx context.Context, page, limit int) ([]*adminaction.Action, int, error),
	page, limit int,
) (ports.ActionListResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	var (
		actions []*adminaction.Action
		total   int
	)
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		actions, total, err = fetch(txCtx, page, limit)
		return err
	})
	if err != nil {
		return ports.ActionListResult{}, err
	}

	views := make([]ports.ActionView, 0, len(actions))
	for _, a := range actions {
		views = append(views, ports.NewActionView(a))
	}

	return ports.ActionListResult{
		Actions:    views,
		TotalCount: total,
		Page:       page,
		PageSize:   limit,
	}, nil
}
