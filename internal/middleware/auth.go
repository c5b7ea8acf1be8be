package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/utils"
)

const userContextKey = "currentUser"

// Authenticate resolves the Authorization header and loads the acting user
// into context. Requests without credentials continue anonymously; the
// per-endpoint policy decides what anonymous actors may do. Two schemes are
// accepted: "Bearer <jwt>" for signed access tokens and "Token <key>" for
// the opaque tokens issued by the simple authorization flow.
func Authenticate(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		var user models.User
		switch {
		case strings.EqualFold(parts[0], "Bearer"):
			claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
			if err != nil || claims.TokenType != "access" {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}

			if err := db.First(&user, "id = ?", userID).Error; err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}

		case strings.EqualFold(parts[0], "Token"):
			var token models.AuthToken
			if err := db.First(&token, "key = ?", parts[1]).Error; err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}

			if err := db.First(&user, "id = ?", token.UserID).Error; err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}

		default:
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		c.Locals(userContextKey, &user)
		return c.Next()
	}
}

// CurrentUser extracts the authenticated user from context, nil when the
// request is anonymous.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
