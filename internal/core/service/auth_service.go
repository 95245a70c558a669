package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
)

// AdminCredentials are the configured credentials that resolve to the
// virtual admin identity. The admin is never a stored user row.
type AdminCredentials struct {
	Email    string
	Password string
}

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.AuthRepository
	admin     AdminCredentials
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, admin AdminCredentials, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, admin: admin, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.IsRegistrableRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Identity, error) {
	if email == "" || password == "" {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	if s.isAdminLogin(email, password) {
		ident := domain.AdminIdentity()
		token, err := s.generateToken(ident)
		if err != nil {
			return "", domain.Identity{}, err
		}
		return token, ident, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	ident := domain.UserIdentity(user.ID, user.Role)
	token, err := s.generateToken(ident)
	if err != nil {
		return "", domain.Identity{}, err
	}

	return token, ident, nil
}

func (s *AuthService) isAdminLogin(email, password string) bool {
	if s.admin.Email == "" || s.admin.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	return emailOK && passOK
}

func (s *AuthService) generateToken(ident domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  ident.UserID(),
		"role": ident.Role(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
