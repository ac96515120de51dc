package middleware

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/types"
	"go.uber.org/zap"
)

// SessionCookie is the authorizer session cookie name
const SessionCookie = "cookie_session"

// SessionValidator checks an authorizer session for a set of roles
type SessionValidator interface {
	ValidateSession(ctx context.Context, requestProtocol, requestHost, cookie string, roles []string) (any, error)
}

// AuthAdmin requires an admin session. A nil validator disables the check,
// which is how the service runs without an authorizer configured.
func AuthAdmin(v SessionValidator, log *zap.Logger) fiber.Handler {
	if v == nil {
		log.Warn("admin authorization is disabled, AUTHZ_URL and AUTHZ_CLIENT_ID are not set")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return func(c *fiber.Ctx) error {
		return authorize(c, v, []string{"admin"}, "data.authorization.admin")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, v SessionValidator, roles []string, errorType string) error {
	session := c.Cookies(SessionCookie)
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Authorizer cookie %q not found", SessionCookie),
			Type:    errorType,
		}
	}

	user, err := v.ValidateSession(c.UserContext(), c.Protocol(), c.Hostname(), session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
			Err:     err,
		}
	}

	c.Locals("user", user)
	return c.Next()
}
