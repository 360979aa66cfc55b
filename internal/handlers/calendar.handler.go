package handlers

import (
	"errors"
	"time"

	"fleetdeck/internal/app"
	calendarController "fleetdeck/internal/controllers/calendarview"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarHandler struct {
	Handler
	controller calendarController.CalendarControllerInterface
}

func NewCalendarHandler(app app.App, router fiber.Router) *CalendarHandler {
	log := logger.New("handlers").File("calendar_handler")
	return &CalendarHandler{
		controller: app.Controllers.Calendar,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CalendarHandler) Register() {
	calendar := h.router.Group(
		"/calendar",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	calendar.Get("/day", h.day)
	calendar.Get("/week", h.week)
	calendar.Get("/month", h.month)

	appointments := h.router.Group(
		"/appointments",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
		h.middleware.RequireFleetManager(),
	)
	appointments.Post("/", h.createAppointment)
	appointments.Put("/:id", h.updateAppointment)
	appointments.Delete("/:id", h.deleteAppointment)
}

// refDate reads the optional ?date=2026-08-31 query, defaulting to today.
func refDate(c *fiber.Ctx) (time.Time, error) {
	dateParam := c.Query("date")
	if dateParam == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", dateParam)
}

func (h *CalendarHandler) day(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("day")
	sc := middleware.GetScope(c)

	ref, err := refDate(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date parameter",
		})
	}

	view, err := h.controller.Day(c.UserContext(), sc, ref)
	if err != nil {
		log.Er("failed to build day view", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load calendar",
		})
	}

	return c.JSON(view)
}

func (h *CalendarHandler) week(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("week")
	sc := middleware.GetScope(c)

	ref, err := refDate(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date parameter",
		})
	}

	view, err := h.controller.Week(c.UserContext(), sc, ref)
	if err != nil {
		log.Er("failed to build week view", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load calendar",
		})
	}

	return c.JSON(view)
}

func (h *CalendarHandler) month(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("month")
	sc := middleware.GetScope(c)

	ref, err := refDate(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date parameter",
		})
	}

	view, err := h.controller.Month(c.UserContext(), sc, ref)
	if err != nil {
		log.Er("failed to build month view", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load calendar",
		})
	}

	return c.JSON(view)
}

func (h *CalendarHandler) createAppointment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createAppointment")
	sc := middleware.GetScope(c)

	var req calendarController.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	appointment, err := h.controller.CreateAppointment(c.UserContext(), sc, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to create appointment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"appointment": appointment})
}

func (h *CalendarHandler) updateAppointment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateAppointment")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	var req calendarController.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	appointment, err := h.controller.UpdateAppointment(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to update appointment")
	}

	return c.JSON(fiber.Map{"appointment": appointment})
}

func (h *CalendarHandler) deleteAppointment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteAppointment")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	if err := h.controller.DeleteAppointment(c.UserContext(), sc, id); err != nil {
		return h.handleError(c, log, err, "Failed to delete appointment")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CalendarHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, calendarController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
