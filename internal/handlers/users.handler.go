package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	userController "fleetdeck/internal/controllers/users"
	"fleetdeck/internal/handlers/middleware"
	"fleetdeck/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserHandler struct {
	Handler
	controller userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("users_handler")
	return &UserHandler{
		controller: app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group(
		"/users",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
		h.middleware.RequireFleetManager(),
	)

	users.Get("/", h.list)
	users.Post("/", h.create)
	users.Put("/:id", h.update)
	users.Post("/:id/deactivate", h.deactivate)
	users.Post("/:id/restore", h.restore)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	users, err := h.controller.List(c.UserContext(), sc)
	if err != nil {
		return h.handleError(c, log, err, "Failed to load users")
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("create")
	sc := middleware.GetScope(c)

	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.controller.Create(c.UserContext(), sc, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("update")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var req userController.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.controller.Update(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to update user")
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) deactivate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deactivate")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	if err := h.controller.Deactivate(c.UserContext(), sc, id); err != nil {
		return h.handleError(c, log, err, "Failed to deactivate user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) restore(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("restore")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	if err := h.controller.Restore(c.UserContext(), sc, id); err != nil {
		return h.handleError(c, log, err, "Failed to restore user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, userController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, userController.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
