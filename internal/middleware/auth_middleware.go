package middleware

import (
	"strings"

	"go-inventory-gst/internal/repository"
	"go-inventory-gst/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(401).JSON(fiber.Map{"error": msg, "kind": "unauthorized"})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(403).JSON(fiber.Map{"error": msg, "kind": "forbidden"})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth validates the JWT, enforces the single-session token
// version against the database and stashes the caller's identity in
// request locals for downstream handlers.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "Missing or malformed authorization header")
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return unauthorized(c, "User not found")
		}
		if !user.IsActive {
			return unauthorized(c, "Account is inactive")
		}
		if user.TokenVersion != claims.TokenVersion {
			return unauthorized(c, "Session expired (logged in on another device)")
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_privileges", claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege gates a route on one privilege code.
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return forbidden(c, "No privileges found")
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return forbidden(c, "Requires '"+requiredPrivilege+"' privilege")
	}
}

// RequireAnyPrivilege gates a route on holding at least one of the codes.
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return forbidden(c, "No privileges found")
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return forbidden(c, "Requires one of: "+strings.Join(requiredPrivileges, ", "))
	}
}
