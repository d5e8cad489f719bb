package middleware

import (
	"errors"
	"strings"

	"go-pos-core/internal/model"
	"go-pos-core/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	LocalAccount    = "account"
	LocalAccountID  = "account_id"
	LocalPrivileges = "privileges"
)

// Authenticator resolves a bearer token to the account it belongs to.
type Authenticator interface {
	Authenticate(tokenString string) (*model.Account, error)
}

// RequireAuth is middleware that validates JWT token and sets account info in context
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		return authenticate(c, auth, parts[1])
	}
}

// RequireSocketAuth guards the websocket upgrade. Browsers cannot set headers on
// an upgrade request, so the token comes from ?token= (a Bearer header also works).
func RequireSocketAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}
		return authenticate(c, auth, token)
	}
}

func authenticate(c *fiber.Ctx, auth Authenticator, token string) error {
	account, err := auth.Authenticate(token)
	if err != nil {
		if errors.Is(err, service.ErrSessionExpired) {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	// Privileges follow the stored role, never the token
	c.Locals(LocalAccount, account)
	c.Locals(LocalAccountID, account.ID)
	c.Locals(LocalPrivileges, account.Privileges())

	return c.Next()
}

// RequirePrivilege checks if the authenticated account has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireAnyPrivilege checks if the account has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, have := range privileges {
			for _, want := range requiredPrivileges {
				if have == want {
					return c.Next()
				}
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}

// AccountID returns the authenticated account id, or 0 outside RequireAuth.
func AccountID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalAccountID).(uint)
	return id
}
