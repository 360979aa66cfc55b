package handlers

import (
	"strconv"

	"fleetdeck/internal/app"
	activityController "fleetdeck/internal/controllers/activity"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	Handler
	controller activityController.ActivityControllerInterface
}

func NewActivityHandler(app app.App, router fiber.Router) *ActivityHandler {
	log := logger.New("handlers").File("activity_handler")
	return &ActivityHandler{
		controller: app.Controllers.Activity,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ActivityHandler) Register() {
	activity := h.router.Group(
		"/activity",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	activity.Get("/", h.recent)
}

func (h *ActivityHandler) recent(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("recent")
	sc := middleware.GetScope(c)

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.controller.Recent(c.UserContext(), sc, limit)
	if err != nil {
		log.Er("failed to load activity feed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load activity",
		})
	}

	return c.JSON(fiber.Map{"activity": entries})
}
