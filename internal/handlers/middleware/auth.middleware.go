package middleware

import (
	"context"
	"errors"
	"strings"

	"fleetdeck/internal/models"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// RequireAuth validates the session token and loads the account.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := tokenParts[1]
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		tokenInfo, err := m.sessions.ValidateToken(c.Context(), token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			if errors.Is(err, services.ErrSessionExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":   "Session expired, please log in again",
					"expired": true,
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		user, err := m.userRepo.GetByID(c.Context(), tokenInfo.UserID)
		if err != nil {
			log.Info("user not found", "userID", tokenInfo.UserID, "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !user.IsActive {
			log.Info("deactivated account attempted access", "userID", user.ID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Account deactivated",
			})
		}

		c.Locals(UserKeyFiber, user)
		c.Locals(sessionIDLocalKey, tokenInfo.SessionID)

		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

const sessionIDLocalKey = "SessionID"

// GetUser extracts the authenticated account from Fiber context.
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSessionID returns the validated session id for the request.
func GetSessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals(sessionIDLocalKey).(string); ok {
		return sid
	}
	return ""
}
