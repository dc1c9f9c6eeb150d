package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	applog "vibecommerce/internal/log"
	"vibecommerce/internal/services"
)

// Session resolves an "Authorization: Bearer <token>" header into the
// "user" and "token" locals. Requests without a valid token pass through
// anonymously.
func Session(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c)
		if tok == "" {
			return c.Next()
		}
		u, err := auth.CurrentUser(c.UserContext(), tok)
		if err != nil {
			applog.Security(c, "session.invalid", nil)
			return c.Next()
		}
		c.Locals("user", u)
		c.Locals("token", tok)
		return c.Next()
	}
}

// RequireUser enforces that a session user is present.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			applog.Security(c, "access.denied", nil)
			return domain.Unauthorized("Authentication required")
		}
		return c.Next()
	}
}

func bearer(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// userID picks the explicit id, then the session user. An empty result
// lets the service fall back to the guest user.
func userID(c *fiber.Ctx, explicit string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if u := currentUser(c); u != nil {
		return u.ID
	}
	return ""
}
