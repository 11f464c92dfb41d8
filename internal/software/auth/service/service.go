package service

import (
	"context"
	"errors"
	"strings"

	"corpride/internal/domain/user"
	"corpride/internal/general/jwt"
	"corpride/internal/general/logger"
	"corpride/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = bcrypt.DefaultCost

var (
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

// authService registers accounts and exchanges credentials for tokens.
type authService struct {
	logger   *logger.Logger
	uow      ports.UnitOfWork
	userRepo ports.UserRepository
	jwtMgr   *jwt.Manager
}

// NewAuthService creates a new instance of the AuthService with the provided dependencies.
func NewAuthService(
	log *logger.Logger,
	uow ports.UnitOfWork,
	userRepo ports.UserRepository,
	jwtMgr *jwt.Manager,
) ports.AuthService {
	return &authService{
		logger:   log,
		uow:      uow,
		userRepo: userRepo,
		jwtMgr:   jwtMgr,
	}
}

// Register creates an account with a bcrypt-hashed password and returns a
// signed token for the new user.
func (service *authService) Register(ctx context.Context, in ports.RegisterInput) (ports.AuthResult, error) {
	if len(in.Password) < 8 {
		return ports.AuthResult{}, ErrWeakPassword
	}

	role := user.RoleEmployee
	if in.Role != "" {
		parsed, err := user.ParseRole(in.Role)
		if err != nil {
			return ports.AuthResult{}, err
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return ports.AuthResult{}, err
	}

	u, err := user.NewUser(in.Name, in.Email, in.EmployeeID, in.Department, role, string(hash))
	if err != nil {
		return ports.AuthResult{}, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.userRepo.CreateUser(txCtx, u)
	})
	if err != nil {
		service.logger.Error(ctx, "user_register_failed", "Failed to register user", err,
			map[string]any{"email": u.Email})
		return ports.AuthResult{}, err
	}

	service.logger.Info(ctx, "user_registered", "User account created",
		map[string]any{"user_id": u.ID, "role": role.String()})

	return service.issue(u)
}

// Login checks credentials and returns a signed token.
func (service *authService) Login(ctx context.Context, in ports.LoginInput) (ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return ports.AuthResult{}, ErrInvalidCredentials
	}

	var u *user.User
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		u, err = service.userRepo.GetByEmail(txCtx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same answer as a bad password, no account enumeration
			return ports.AuthResult{}, ErrInvalidCredentials
		}
		return ports.AuthResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return ports.AuthResult{}, ErrInvalidCredentials
	}
	if !u.Status.IsActive() {
		return ports.AuthResult{}, ErrAccountInactive
	}

	service.logger.Info(ctx, "user_logged_in", "User authenticated",
		map[string]any{"user_id": u.ID})

	return service.issue(u)
}

func (service *authService) issue(u *user.User) (ports.AuthResult, error) {
	token, _, err := service.jwtMgr.IssueUserToken(u.ID, u.Role)
	if err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role.String(),
		Token:  token,
	}, nil
}
