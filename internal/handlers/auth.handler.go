package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	authController "fleetdeck/internal/controllers/auth"
	"fleetdeck/internal/handlers/middleware"
	"fleetdeck/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	Handler
	controller authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		controller: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.getCurrentUser)
	protected.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("login")

	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid login payload", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.controller.Login(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, authController.ErrInvalidCredentials) ||
			errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		log.Er("login failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	return c.JSON(response)
}

// getCurrentUser returns the authenticated user's profile along with the
// effective scope so clients can render impersonation state.
func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.ToProfile(),
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("logout")

	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if err := h.controller.Logout(c.UserContext(), sessionID); err != nil {
		log.Er("logout failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Logout failed",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Logout successful",
	})
}
