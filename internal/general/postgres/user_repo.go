package postgres

import (
	"context"
	"errors"

	"corpride/internal/domain/user"
	"corpride/internal/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepo persists users using pgx and plain SQL.
type UserRepo struct{}

// NewUserRepo constructs a new UserRepo.
func NewUserRepo() ports.UserRepository {
	return &UserRepo{}
}

const uniqueViolation = "23505"

// CreateUser inserts a new user row.
func (repo *UserRepo) CreateUser(ctx context.Context, u *user.User) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO users (name, email, employee_id, department, role, status, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		u.Name,
		u.Email,
		u.EmployeeID,
		u.Department,
		u.Role.String(),
		u.Status.String(),
		u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return err
	}

	return nil
}

// GetByID returns one user by id.
func (repo *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return repo.getByColumn(ctx, "id", id)
}

// GetByEmail returns one user by email.
func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.getByColumn(ctx, "email", email)
}

func (repo *UserRepo) getByColumn(ctx context.Context, column, value string) (*user.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var (
		out        user.User
		roleText   string
		statusText string
	)

	err = tx.QueryRow(ctx, `
		SELECT
			id, created_at, updated_at,
			name, email, employee_id, department, role, status, password_hash
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt,
		&out.Name, &out.Email, &out.EmployeeID, &out.Department, &roleText, &statusText, &out.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}

	out.Role = user.Role(roleText)
	out.Status = user.Status(statusText)

	return &out, nil
}
