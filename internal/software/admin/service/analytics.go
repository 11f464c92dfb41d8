package service

import (
	"context"
	"fmt"
	"strings"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"
)

const dateLayout = "2006-01-02"

// GetAnalytics aggregates rides over an inclusive date range, grouped by
// calendar day, status or purpose. Empty buckets are absent from the result.
func (service *adminService) GetAnalytics(ctx context.Context, actor ports.Actor, in ports.AnalyticsInput) (ports.AnalyticsResult, error) {
	if !actor.Role.IsAdmin() {
		return ports.AnalyticsResult{}, ride.ErrForbidden
	}

	groupBy := ports.GroupBy(strings.ToLower(strings.TrimSpace(in.GroupBy)))
	if !groupBy.Valid() {
		return ports.AnalyticsResult{}, fmt.Errorf("group_by must be one of: date, status, purpose")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return ports.AnalyticsResult{}, fmt.Errorf("start_date and end_date are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return ports.AnalyticsResult{}, fmt.Errorf("end_date cannot be before start_date")
	}

	q := ports.AnalyticsQuery{From: in.StartDate, To: in.EndDate, GroupBy: groupBy}

	var buckets []ports.AnalyticsBucket
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		buckets, err = service.rideRepo.Aggregate(txCtx, q)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "analytics_failed", "Failed to aggregate rides", err, map[string]any{
			"group_by": string(groupBy),
		})
		return ports.AnalyticsResult{}, err
	}

	return ports.AnalyticsResult{
		GroupBy:   string(groupBy),
		StartDate: in.StartDate.Format(dateLayout),
		EndDate:   in.EndDate.Format(dateLayout),
		Buckets:   buckets,
	}, nil
}
