package handlers

import (
	"errors"
	"strconv"
	"time"

	"fleetdeck/internal/app"
	yachtController "fleetdeck/internal/controllers/yachts"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type YachtHandler struct {
	Handler
	controller yachtController.YachtControllerInterface
}

func NewYachtHandler(app app.App, router fiber.Router) *YachtHandler {
	log := logger.New("handlers").File("yachts_handler")
	return &YachtHandler{
		controller: app.Controllers.Yacht,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *YachtHandler) Register() {
	yachts := h.router.Group(
		"/yachts",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	yachts.Get("/", h.list)
	yachts.Get("/:id", h.get)
	yachts.Get("/:id/budgets", h.listBudgets)

	managers := yachts.Group("/", h.middleware.RequireFleetManager())
	managers.Post("/", h.create)
	managers.Put("/:id", h.update)
	managers.Post("/:id/deactivate", h.deactivate)
	managers.Put("/:id/budgets", h.upsertBudget)
}

func (h *YachtHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	yachts, err := h.controller.List(c.UserContext(), sc)
	if err != nil {
		log.Er("failed to list yachts", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load yachts",
		})
	}

	return c.JSON(fiber.Map{"yachts": yachts})
}

func (h *YachtHandler) get(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("get")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	yacht, err := h.controller.Get(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to load yacht")
	}

	return c.JSON(fiber.Map{"yacht": yacht})
}

func (h *YachtHandler) create(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("create")
	sc := middleware.GetScope(c)

	var req yachtController.YachtRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	yacht, err := h.controller.Create(c.UserContext(), sc, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to create yacht")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"yacht": yacht})
}

func (h *YachtHandler) update(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("update")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	var req yachtController.YachtRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	yacht, err := h.controller.Update(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to update yacht")
	}

	return c.JSON(fiber.Map{"yacht": yacht})
}

func (h *YachtHandler) deactivate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deactivate")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	if err := h.controller.Deactivate(c.UserContext(), sc, id); err != nil {
		return h.handleError(c, log, err, "Failed to deactivate yacht")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *YachtHandler) listBudgets(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listBudgets")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	year := time.Now().UTC().Year()
	if yearParam := c.Query("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid year parameter",
			})
		}
		year = parsed
	}

	budgets, err := h.controller.ListBudgets(c.UserContext(), sc, id, year)
	if err != nil {
		return h.handleError(c, log, err, "Failed to load budgets")
	}

	return c.JSON(fiber.Map{"budgets": budgets})
}

func (h *YachtHandler) upsertBudget(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("upsertBudget")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	var req yachtController.BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.YachtID = id

	budget, err := h.controller.UpsertBudget(c.UserContext(), sc, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to save budget")
	}

	return c.JSON(fiber.Map{"budget": budget})
}

func (h *YachtHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, yachtController.ErrForbidden),
		errors.Is(err, yachtController.ErrOutsideScope):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, yachtController.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Yacht not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
