package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/e2recycle/platform/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User // keyed by email
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

var testAdmin = AdminCredentials{Email: "admin@e2recycle.io", Password: "sup3rs3cret"}

func newAuthSvc(repo *stubAuthRepo) *AuthService {
	return NewAuthService(repo, testAdmin, "secret", time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123", domain.RoleIndividual)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleIndividual {
		t.Errorf("expected role individual, got %s", user.Role)
	}
	if user.PasswordHash == "pass123" || user.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")) != nil {
		t.Errorf("stored hash does not verify against the password")
	}
}

func TestAuthService_Register_AllRegistrableRoles(t *testing.T) {
	for _, role := range []string{domain.RoleIndividual, domain.RoleBusiness, domain.RoleEducational, domain.RoleRecycler} {
		repo := newStubAuthRepo()
		svc := newAuthSvc(repo)
		if _, err := svc.Register(context.Background(), "U", "u@example.com", "pw", role); err != nil {
			t.Errorf("role %s: %v", role, err)
		}
	}
}

func TestAuthService_Register_AdminNotRegistrable(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo())
	if _, err := svc.Register(context.Background(), "Eve", "eve@example.com", "pw", domain.RoleAdmin); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw", domain.RoleRecycler); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw", domain.RoleRecycler); err != domain.ErrUserExists {
		t.Fatalf("expected user exists, got: %v", err)
	}
}

func TestAuthService_Login_User(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)

	created, err := svc.Register(context.Background(), "Rey", "rey@example.com", "pw", domain.RoleRecycler)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, ident, err := svc.Login(context.Background(), "rey@example.com", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if ident.IsAdmin() {
		t.Fatalf("regular user resolved as admin")
	}
	if ident.UserID() != created.ID || ident.Role() != domain.RoleRecycler {
		t.Errorf("unexpected identity: %s/%s", ident.UserID(), ident.Role())
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims["role"] != domain.RoleRecycler || claims["sub"] != created.ID {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo)
	if _, err := svc.Register(context.Background(), "Rey", "rey@example.com", "pw", domain.RoleRecycler); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "rey@example.com", "nope"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
}

func TestAuthService_Login_Admin(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo())

	_, ident, err := svc.Login(context.Background(), testAdmin.Email, testAdmin.Password)
	if err != nil {
		t.Fatalf("admin login returned error: %v", err)
	}
	if !ident.IsAdmin() {
		t.Fatalf("expected admin identity")
	}
	if ident.UserID() != "" {
		t.Errorf("admin identity must not carry a user id, got %q", ident.UserID())
	}
}

func TestAuthService_Login_AdminWrongPassword(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo())

	// Falls through to user lookup, which finds nothing.
	if _, _, err := svc.Login(context.Background(), testAdmin.Email, "wrong"); err != domain.ErrUserNotFound {
		t.Fatalf("expected user not found, got: %v", err)
	}
}
