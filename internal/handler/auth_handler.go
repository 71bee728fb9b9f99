package handler

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if req.Email == "" || req.Password == "" {
		return respondError(c, apperr.Validation("email and password are required"))
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		// Credential and inactive-account failures share a single 401.
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": response})
}

// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		return respondError(c, apperr.Validation("email, old_password and new_password are required"))
	}
	if len(req.NewPassword) < 6 {
		return respondError(c, apperr.Validation("new password must be at least 6 characters"))
	}

	if err := h.authService.ResetPassword(req.Email, req.OldPassword, req.NewPassword); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// POST /api/v1/auth/heartbeat
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	id, err := uuid.Parse(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.authService.Heartbeat(id); err != nil {
		return respondError(c, apperr.Internal("failed to update heartbeat"))
	}

	return c.JSON(fiber.Map{"message": "Heartbeat received", "status": "online"})
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if req.Token == "" {
		return respondError(c, apperr.Validation("token is required"))
	}

	response, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": response})
}
