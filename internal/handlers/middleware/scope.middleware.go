package middleware

import (
	"fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ImpersonateRoleHeader  = "X-Impersonate-Role"
	ImpersonateYachtHeader = "X-Impersonate-Yacht"

	scopeLocalKey = "Scope"
)

// ResolveScope builds the effective query scope for the request from the
// authenticated account plus any impersonation headers. Must run after
// RequireAuth. Headers from accounts not allowed to impersonate are ignored
// rather than rejected, so a stale header never locks a user out.
func (m *Middleware) ResolveScope() fiber.Handler {
	log := m.log.Function("ResolveScope")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		session := scope.Session{
			UserID:        user.ID,
			ActualRole:    user.Role,
			ActualYachtID: user.YachtID,
		}

		if raw := c.Get(ImpersonateRoleHeader); raw != "" {
			role := models.Role(raw)
			if role.Valid() {
				session.ImpersonatedRole = &role
			} else {
				log.Warn("ignoring invalid impersonation role", "role", raw, "userID", user.ID)
			}
		}

		if raw := c.Get(ImpersonateYachtHeader); raw != "" {
			yachtID, err := uuid.Parse(raw)
			if err != nil {
				log.Warn("ignoring invalid impersonation yacht id", "yachtId", raw, "userID", user.ID)
			} else {
				session.ImpersonatedYachtID = &yachtID
			}
		}

		c.Locals(scopeLocalKey, scope.Resolve(session))
		return c.Next()
	}
}

// GetScope returns the resolved scope for the request. Falls back to the
// bare account scope when ResolveScope has not run.
func GetScope(c *fiber.Ctx) scope.Scope {
	if sc, ok := c.Locals(scopeLocalKey).(scope.Scope); ok {
		return sc
	}
	if user := GetUser(c); user != nil {
		return scope.Resolve(scope.Session{
			UserID:        user.ID,
			ActualRole:    user.Role,
			ActualYachtID: user.YachtID,
		})
	}
	return scope.Scope{}
}

// RequireFleetManager restricts a route to master and staff scopes.
func (m *Middleware) RequireFleetManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetScope(c).CanManageFleet() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Fleet manager access required",
			})
		}
		return c.Next()
	}
}

// RequireRepairResolver restricts a route to scopes that may move repair
// requests through their lifecycle.
func (m *Middleware) RequireRepairResolver() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetScope(c).CanResolveRepairs() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Repair workflow access required",
			})
		}
		return c.Next()
	}
}
