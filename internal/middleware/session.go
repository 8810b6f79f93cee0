package middleware

import (
	"errors"
	"log"
	"strings"

	"partspicker/internal/models"
	"partspicker/internal/repositories"
	"partspicker/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by SessionRequired.
const (
	LocalUser = "user"
)

// SessionRequired is a Fiber middleware that resolves the session token to a
// user record. The token is read from the access_token cookie first, then
// from an Authorization: Bearer header, since both transports are in use.
// Missing token, failed validation and an unknown subject are logged
// distinctly but all answer 401 with the same body.
func SessionRequired(tokens *services.TokenService, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			log.Printf("session resolve: no token on %s %s", c.Method(), c.Path())
			return denied(c)
		}

		subject, err := tokens.Validate(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				log.Printf("session resolve: expired token on %s %s", c.Method(), c.Path())
			} else {
				log.Printf("session resolve: invalid token on %s %s: %v", c.Method(), c.Path(), err)
			}
			return denied(c)
		}

		user, err := users.GetByUsername(subject)
		if err != nil {
			log.Printf("session resolve: unknown subject %q: %v", subject, err)
			return denied(c)
		}

		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireAdmin allows the request through only when the resolved user holds
// the admin role. Must run after SessionRequired.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromContext(c)
		if user == nil {
			return denied(c)
		}
		if user.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin role required",
			})
		}
		return c.Next()
	}
}

// UserFromContext returns the user resolved by SessionRequired, or nil.
func UserFromContext(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}

func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies("access_token"); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func denied(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Could not validate credentials",
	})
}
