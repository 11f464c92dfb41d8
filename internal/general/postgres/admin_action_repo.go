package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"corpride/internal/domain/adminaction"
	"corpride/internal/domain/ride"
	"corpride/internal/ports"

	"github.com/jackc/pgx/v5"
)

// AdminActionRepo persists the admin audit ledger using pgx and plain SQL.
type AdminActionRepo struct{}

// NewAdminActionRepo constructs a new AdminActionRepo.
func NewAdminActionRepo() ports.AdminActionRepository {
	return &AdminActionRepo{}
}

// Append inserts a new admin_actions row. The ledger is append-only; there is
// no update or delete path.
func (repo *AdminActionRepo) Append(ctx context.Context, a *adminaction.Action) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.Validate(); err != nil {
		return err
	}

	meta, err := a.MetadataJSON()
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO admin_actions (
			ride_id, admin_id, action, reason,
			previous_status, new_status, metadata, ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
		RETURNING id, created_at
	`,
		a.RideID,
		a.AdminID,
		a.Type.String(),
		nullable(a.Reason),
		statusText(a.PreviousStatus),
		statusText(a.NewStatus),
		meta,
		nullable(a.IPAddress),
		nullable(a.UserAgent),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert admin action: %w", err)
	}

	return nil
}

// ListByRide returns one page of ledger entries for a ride, newest first.
func (repo *AdminActionRepo) ListByRide(ctx context.Context, rideID string, page, limit int) ([]*adminaction.Action, int, error) {
	return repo.list(ctx, "ride_id", rideID, page, limit)
}

// ListByAdmin returns one page of ledger entries written by an admin, newest first.
func (repo *AdminActionRepo) ListByAdmin(ctx context.Context, adminID string, page, limit int) ([]*adminaction.Action, int, error) {
	return repo.list(ctx, "admin_id", adminID, page, limit)
}

func (repo *AdminActionRepo) list(ctx context.Context, column, value string, page, limit int) ([]*adminaction.Action, int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM admin_actions WHERE `+column+` = $1`, value,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count admin actions: %w", err)
	}

	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	rows, err := tx.Query(ctx, `
		SELECT
			id, created_at, ride_id, admin_id, action, reason,
			previous_status, new_status, metadata, ip_address, user_agent
		FROM admin_actions
		WHERE `+column+` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, value, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query admin actions: %w", err)
	}
	defer rows.Close()

	var actions []*adminaction.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan admin action: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return actions, total, nil
}

// --- helpers ---

func scanAction(row pgx.Row) (*adminaction.Action, error) {
	var (
		out        adminaction.Action
		actionType string
		reason     *string
		prevStatus *string
		newStatus  *string
		metaRaw    []byte
		ip         *string
		userAgent  *string
	)

	err := row.Scan(
		&out.ID, &out.CreatedAt, &out.RideID, &out.AdminID, &actionType, &reason,
		&prevStatus, &newStatus, &metaRaw, &ip, &userAgent,
	)
	if err != nil {
		return nil, err
	}

	out.Type = adminaction.ActionType(actionType)
	if reason != nil {
		out.Reason = *reason
	}
	if prevStatus != nil {
		s := ride.Status(*prevStatus)
		out.PreviousStatus = &s
	}
	if newStatus != nil {
		s := ride.Status(*newStatus)
		out.NewStatus = &s
	}
	if len(metaRaw) > 0 {
		if err := json.Unmarshal(metaRaw, &out.Metadata); err != nil {
			return nil, err
		}
	}
	if ip != nil {
		out.IPAddress = *ip
	}
	if userAgent != nil {
		out.UserAgent = *userAgent
	}

	return &out, nil
}

func statusText(s *ride.Status) *string {
	if s == nil {
		return nil
	}
	text := s.String()
	return &text
}
