package ports

import (
	"context"

	"github.com/e2recycle/platform/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	// Login authenticates against the configured admin credentials first,
	// then against stored users, and returns a signed token plus the
	// resolved identity.
	Login(ctx context.Context, email, password string) (string, domain.Identity, error)
}
