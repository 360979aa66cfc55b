package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	notificationController "fleetdeck/internal/controllers/notifications"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	Handler
	controller notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	log := logger.New("handlers").File("notifications_handler")
	return &NotificationHandler{
		controller: app.Controllers.Notification,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group(
		"/notifications",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	notifications.Get("/", h.list)
	notifications.Post("/:id/read", h.markRead)

	notifications.Post("/broadcast", h.middleware.RequireFleetManager(), h.broadcast)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	notifications, err := h.controller.List(c.UserContext(), sc)
	if err != nil {
		log.Er("failed to list notifications", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load notifications",
		})
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) broadcast(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("broadcast")
	sc := middleware.GetScope(c)

	var req notificationController.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	notification, err := h.controller.Broadcast(c.UserContext(), sc, &req)
	if err != nil {
		switch {
		case errors.Is(err, notificationController.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, notificationController.ErrEmptyTitle):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Er("failed to broadcast notification", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to broadcast notification",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"notification": notification})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("markRead")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification id",
		})
	}

	if err := h.controller.MarkRead(c.UserContext(), sc, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Notification not found",
			})
		}
		log.Er("failed to mark notification read", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update notification",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
