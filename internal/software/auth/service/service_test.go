package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"corpride/internal/domain/user"
	"corpride/internal/general/jwt"
	"corpride/internal/general/logger"
	"corpride/internal/ports"

	"github.com/google/uuid"
)

type memUnitOfWork struct{}

func (memUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (repo *memUserRepo) CreateUser(_ context.Context, u *user.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byEmail[u.Email]; exists {
		return user.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	repo.byID[u.ID] = &cp
	repo.byEmail[u.Email] = &cp
	return nil
}

func (repo *memUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	u, ok := repo.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (repo *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	u, ok := repo.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newTestService(repo *memUserRepo) ports.AuthService {
	mgr := jwt.NewManager("test-secret-test-secret-test-secret", time.Hour)
	return NewAuthService(logger.New("auth-service-test"), memUnitOfWork{}, repo, mgr)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, ports.RegisterInput{
		Name:       "Asha Nair",
		Email:      "Asha.Nair@Example.Com",
		EmployeeID: "E-1042",
		Department: "Finance",
		Password:   "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.Email != "asha.nair@example.com" {
		t.Errorf("email = %q, want lowercased", registered.Email)
	}
	if registered.Role != "EMPLOYEE" {
		t.Errorf("role = %q, want EMPLOYEE default", registered.Role)
	}
	if registered.Token == "" {
		t.Errorf("no token issued on register")
	}

	stored, err := repo.GetByID(ctx, registered.UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.PasswordHash == "correct horse battery" {
		t.Fatalf("password stored in clear")
	}

	logged, err := svc.Login(ctx, ports.LoginInput{
		Email:    " ASHA.NAIR@example.com ",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.UserID != registered.UserID {
		t.Errorf("login user = %q, want %q", logged.UserID, registered.UserID)
	}
	if logged.Token == "" {
		t.Errorf("no token issued on login")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(newMemUserRepo())
	ctx := context.Background()

	in := ports.RegisterInput{
		Name:     "Asha Nair",
		Email:    "asha.nair@example.com",
		Password: "correct horse battery",
	}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, in); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("second Register err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newMemUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{
		Name: "A", Email: "a@example.com", Password: "short",
	}); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password err = %v, want ErrWeakPassword", err)
	}

	if _, err := svc.Register(ctx, ports.RegisterInput{
		Name: "A", Email: "not-an-email", Password: "long enough password",
	}); !errors.Is(err, user.ErrInvalidEmail) {
		t.Errorf("bad email err = %v, want ErrInvalidEmail", err)
	}

	if _, err := svc.Register(ctx, ports.RegisterInput{
		Name: "A", Email: "a@example.com", Password: "long enough password", Role: "superuser",
	}); err == nil {
		t.Errorf("unknown role accepted")
	}

	admin, err := svc.Register(ctx, ports.RegisterInput{
		Name: "B", Email: "b@example.com", Password: "long enough password", Role: "admin",
	})
	if err != nil {
		t.Fatalf("admin Register: %v", err)
	}
	if admin.Role != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", admin.Role)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, ports.RegisterInput{
		Name:     "Asha Nair",
		Email:    "asha.nair@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, ports.LoginInput{
		Email: "asha.nair@example.com", Password: "wrong password",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}

	// unknown account and wrong password are indistinguishable
	if _, err := svc.Login(ctx, ports.LoginInput{
		Email: "nobody@example.com", Password: "correct horse battery",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}

	stored, _ := repo.GetByID(ctx, registered.UserID)
	stored.Status = user.StatusInactive
	repo.mu.Lock()
	repo.byEmail[stored.Email] = stored
	repo.byID[stored.ID] = stored
	repo.mu.Unlock()

	if _, err := svc.Login(ctx, ports.LoginInput{
		Email: "asha.nair@example.com", Password: "correct horse battery",
	}); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("inactive account err = %v, want ErrAccountInactive", err)
	}
}
