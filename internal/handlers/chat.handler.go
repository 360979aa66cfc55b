package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	chatController "fleetdeck/internal/controllers/chat"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	Handler
	controller chatController.ChatControllerInterface
}

func NewChatHandler(app app.App, router fiber.Router) *ChatHandler {
	log := logger.New("handlers").File("chat_handler")
	return &ChatHandler{
		controller: app.Controllers.Chat,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ChatHandler) Register() {
	chat := h.router.Group(
		"/yachts/:yachtId/chat",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	chat.Get("/", h.list)
	chat.Post("/", h.post)
}

func (h *ChatHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	yachtID, err := uuid.Parse(c.Params("yachtId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	messages, err := h.controller.List(c.UserContext(), sc, yachtID)
	if err != nil {
		if errors.Is(err, chatController.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Er("failed to list chat messages", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load chat",
		})
	}

	return c.JSON(fiber.Map{"messages": messages})
}

type postMessageRequest struct {
	Body string `json:"body"`
}

func (h *ChatHandler) post(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("post")
	sc := middleware.GetScope(c)

	yachtID, err := uuid.Parse(c.Params("yachtId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	message, err := h.controller.Post(c.UserContext(), sc, yachtID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, chatController.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, chatController.ErrEmptyBody):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Er("failed to post chat message", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to post message",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}
