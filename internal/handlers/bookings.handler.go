package handlers

import (
	"errors"
	"time"

	"fleetdeck/internal/app"
	bookingController "fleetdeck/internal/controllers/bookings"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingHandler struct {
	Handler
	controller bookingController.BookingControllerInterface
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("bookings_handler")
	return &BookingHandler{
		controller: app.Controllers.Booking,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	bookings := h.router.Group(
		"/bookings",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	bookings.Get("/", h.list)
	bookings.Post("/", h.create)
	bookings.Put("/:id", h.update)
	bookings.Delete("/:id", h.delete)
	bookings.Post("/:id/checkin", h.checkIn)
	bookings.Post("/:id/checkout", h.checkOut)
}

func (h *BookingHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	fromParam := c.Query("from")
	toParam := c.Query("to")
	if fromParam != "" && toParam != "" {
		from, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from parameter",
			})
		}
		to, err := time.Parse(time.RFC3339, toParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to parameter",
			})
		}

		rows, err := h.controller.ListRange(c.UserContext(), sc, from, to)
		if err != nil {
			log.Er("failed to list bookings in range", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load bookings",
			})
		}
		return c.JSON(fiber.Map{"bookings": rows})
	}

	rows, err := h.controller.List(c.UserContext(), sc)
	if err != nil {
		log.Er("failed to list bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load bookings",
		})
	}

	return c.JSON(fiber.Map{"bookings": rows})
}

func (h *BookingHandler) create(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("create")
	sc := middleware.GetScope(c)

	var req bookingController.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.controller.Create(c.UserContext(), sc, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) update(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("update")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	var req bookingController.UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.controller.Update(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to update booking")
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) delete(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("delete")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	if err := h.controller.Delete(c.UserContext(), sc, id); err != nil {
		return h.handleError(c, log, err, "Failed to delete booking")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookingHandler) checkIn(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("checkIn")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	booking, err := h.controller.CheckIn(c.UserContext(), sc, id, time.Now().UTC())
	if err != nil {
		return h.handleError(c, log, err, "Failed to check in")
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) checkOut(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("checkOut")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	booking, err := h.controller.CheckOut(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to check out")
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, bookingController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, bookingController.ErrOutsideWindow),
		errors.Is(err, bookingController.ErrNotCheckedIn),
		errors.Is(err, bookingController.ErrAlreadyCheckedIn):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
