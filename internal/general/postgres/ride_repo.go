package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"

	"github.com/jackc/pgx/v5"
)

// RideRepo persists rides using pgx and plain SQL.
type RideRepo struct{}

// NewRideRepo constructs a new RideRepo.
func NewRideRepo() ports.RideRepository {
	return &RideRepo{}
}

const rideColumns = `
	id, created_at, updated_at, requester_id,
	pickup_address, pickup_lat, pickup_lng, pickup_instructions,
	drop_address, drop_lat, drop_lng, drop_instructions,
	ride_date, pickup_time, drop_time, ride_type, recurring_days,
	purpose, priority,
	estimated_distance_km, estimated_duration_minutes, estimated_fare, actual_fare,
	status, driver, notes, cancellation_reason, cancelled_by, cancelled_at, completed_at`

// CreateRide inserts a fully-populated ride row. The row carries every field
// in a single INSERT so readers never observe a half-written ride.
func (repo *RideRepo) CreateRide(ctx context.Context, r *ride.Ride) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	driverJSON, err := encodeDriver(r.Driver)
	if err != nil {
		return fmt.Errorf("encode driver: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO rides (
			requester_id,
			pickup_address, pickup_lat, pickup_lng, pickup_instructions,
			drop_address, drop_lat, drop_lng, drop_instructions,
			ride_date, pickup_time, drop_time, ride_type, recurring_days,
			purpose, priority,
			estimated_distance_km, estimated_duration_minutes, estimated_fare,
			status, driver, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at, updated_at
	`,
		r.RequesterID,
		r.Pickup.Address, r.Pickup.Latitude, r.Pickup.Longitude, r.Pickup.Instructions,
		r.Drop.Address, r.Drop.Latitude, r.Drop.Longitude, r.Drop.Instructions,
		r.RideDate, r.PickupTime, r.DropTime, r.Type.String(), weekdayStrings(r.RecurringDays),
		r.Purpose.String(), r.Priority.String(),
		r.EstimatedDistanceKM, r.EstimatedDurationMinutes, r.EstimatedFare,
		r.Status.String(), driverJSON, r.Notes,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}

	return nil
}

// GetByID fetches a ride by primary key (uuid).
func (repo *RideRepo) GetByID(ctx context.Context, id string) (*ride.Ride, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `SELECT`+rideColumns+` FROM rides WHERE id = $1`, id)
	out, err := scanRide(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ride.ErrNotFound
		}
		return nil, err
	}

	return out, nil
}

// List returns one page of rides matching f, newest first, plus the total
// count of matching rows.
func (repo *RideRepo) List(ctx context.Context, f ports.RideFilter) ([]*ride.Ride, int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildRideWhere(f)

	var total int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM rides`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rides: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT%s FROM rides%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		rideColumns, where, len(args)-1, len(args))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query rides: %w", err)
	}
	defer rows.Close()

	var rides []*ride.Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ride: %w", err)
		}
		rides = append(rides, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return rides, total, nil
}

// TransitionStatus moves a ride from one status to another as a single
// conditional UPDATE keyed by the observed current status. When two callers
// race, the row matches at most one of them; the loser gets applied=false.
func (repo *RideRepo) TransitionStatus(ctx context.Context, id string, from, to ride.Status, at time.Time) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    completed_at = CASE WHEN $1 = 'completed' THEN $2 ELSE completed_at END,
		    updated_at = $2
		WHERE id = $3 AND status = $4
	`, to.String(), at, id, from.String())
	if err != nil {
		return false, fmt.Errorf("update ride status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Cancel stamps cancellation fields and moves the ride to cancelled,
// conditional on the observed current status.
func (repo *RideRepo) Cancel(ctx context.Context, id string, from ride.Status, reason, cancelledBy string, at time.Time) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET status = 'cancelled',
		    cancellation_reason = $1,
		    cancelled_by = $2,
		    cancelled_at = $3,
		    updated_at = $3
		WHERE id = $4 AND status = $5
	`, nullable(reason), cancelledBy, at, id, from.String())
	if err != nil {
		return false, fmt.Errorf("cancel ride: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetDriver attaches a driver assignment to an approved ride. The status
// condition keeps assignments off rides that were cancelled in the meantime.
func (repo *RideRepo) SetDriver(ctx context.Context, id string, d ride.DriverInfo, at time.Time) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	driverJSON, err := encodeDriver(&d)
	if err != nil {
		return false, fmt.Errorf("encode driver: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET driver = $1::jsonb,
		    updated_at = $2
		WHERE id = $3 AND status = 'approved'
	`, driverJSON, at, id)
	if err != nil {
		return false, fmt.Errorf("set driver: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Aggregate groups rides by calendar day of ride_date, status or purpose over
// an inclusive date range. Buckets with zero rides are absent from the result;
// output is ordered by key ascending.
func (repo *RideRepo) Aggregate(ctx context.Context, q ports.AnalyticsQuery) ([]ports.AnalyticsBucket, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var keyExpr string
	switch q.GroupBy {
	case ports.GroupByDate:
		keyExpr = `to_char(ride_date, 'YYYY-MM-DD')`
	case ports.GroupByStatus:
		keyExpr = `status`
	case ports.GroupByPurpose:
		keyExpr = `purpose`
	default:
		return nil, fmt.Errorf("unsupported group_by %q", q.GroupBy)
	}

	rows, err := tx.Query(ctx, fmt.Sprintf(`
		SELECT %s AS bucket_key,
		       count(*),
		       coalesce(sum(estimated_fare), 0),
		       coalesce(sum(actual_fare), 0)
		FROM rides
		WHERE ride_date::date BETWEEN $1::date AND $2::date
		GROUP BY bucket_key
		ORDER BY bucket_key ASC
	`, keyExpr), q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("aggregate rides: %w", err)
	}
	defer rows.Close()

	var buckets []ports.AnalyticsBucket
	for rows.Next() {
		var b ports.AnalyticsBucket
		if err := rows.Scan(&b.Key, &b.Count, &b.TotalEstimatedFare, &b.TotalActualFare); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return buckets, nil
}

// --- helpers ---

// buildRideWhere assembles the WHERE clause and its positional args for f.
func buildRideWhere(f ports.RideFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(expr string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.RequesterID != "" {
		add("requester_id = $%d", f.RequesterID)
	}
	if f.Status != nil {
		add("status = $%d", f.Status.String())
	}
	if f.Type != nil {
		add("ride_type = $%d", f.Type.String())
	}
	if f.Purpose != nil {
		add("purpose = $%d", f.Purpose.String())
	}
	// Date bounds compare on the calendar day, like the analytics range:
	// date_to=2026-09-05 must include a ride at 09:00 that day.
	if f.DateFrom != nil {
		add("ride_date::date >= $%d::date", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("ride_date::date <= $%d::date", *f.DateTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanRide reads one rides row into a domain Ride.
func scanRide(row pgx.Row) (*ride.Ride, error) {
	var (
		out        ride.Ride
		rideType   string
		days       []string
		purpose    string
		priority   string
		status     string
		driverJSON []byte
		reason     *string
	)

	err := row.Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.RequesterID,
		&out.Pickup.Address, &out.Pickup.Latitude, &out.Pickup.Longitude, &out.Pickup.Instructions,
		&out.Drop.Address, &out.Drop.Latitude, &out.Drop.Longitude, &out.Drop.Instructions,
		&out.RideDate, &out.PickupTime, &out.DropTime, &rideType, &days,
		&purpose, &priority,
		&out.EstimatedDistanceKM, &out.EstimatedDurationMinutes, &out.EstimatedFare, &out.ActualFare,
		&status, &driverJSON, &out.Notes, &reason, &out.CancelledBy, &out.CancelledAt, &out.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	out.Type = ride.Type(rideType)
	out.Purpose = ride.Purpose(purpose)
	out.Priority = ride.Priority(priority)
	out.Status = ride.Status(status)
	out.CancellationReason = reason
	for _, d := range days {
		out.RecurringDays = append(out.RecurringDays, ride.Weekday(d))
	}

	if len(driverJSON) > 0 {
		var d ride.DriverInfo
		if err := json.Unmarshal(driverJSON, &d); err != nil {
			return nil, fmt.Errorf("decode driver: %w", err)
		}
		out.Driver = &d
	}

	return &out, nil
}

// encodeDriver marshals a driver assignment for the jsonb column, nil for no driver.
func encodeDriver(d *ride.DriverInfo) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// weekdayStrings converts domain weekdays to the text[] column representation.
func weekdayStrings(days []ride.Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
