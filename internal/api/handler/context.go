package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/e2recycle/platform/internal/core/domain"
)

// ctxIdentity rebuilds the caller identity from the claims injected by the
// Auth middleware. A missing role means the middleware never ran; every role
// except admin additionally requires a subject id.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if role == domain.RoleAdmin {
		return domain.AdminIdentity(), nil
	}

	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject identity")
	}

	return domain.UserIdentity(userID, role), nil
}
