package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/log"
	"vibecommerce/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func signedIn(c *fiber.Ctx, status int, u *domain.User, token string) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": u, "token": token})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	u, token, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": in.Email})
		return err
	}
	log.Audit(c, "auth.register.success", map[string]any{"email": u.Email})
	return signedIn(c, fiber.StatusCreated, u, token)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	u, token, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return err
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return signedIn(c, fiber.StatusOK, u, token)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in services.ResetInput
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	if err := h.Auth.ResetPassword(c.UserContext(), in); err != nil {
		log.Security(c, "auth.reset.fail", map[string]any{"email": in.Email})
		return err
	}
	log.Audit(c, "auth.reset.success", map[string]any{"email": in.Email})
	return message(c, "Password updated successfully! You can now log in with your new password.")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tok, _ := c.Locals("token").(string)
	if err := h.Auth.Logout(c.UserContext(), tok); err != nil {
		return err
	}
	log.Audit(c, "auth.logout", nil)
	return message(c, "Logged out")
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, currentUser(c))
}
