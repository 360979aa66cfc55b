package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	repairController "fleetdeck/internal/controllers/repairs"
	"fleetdeck/internal/handlers/middleware"
	"fleetdeck/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepairHandler struct {
	Handler
	controller repairController.RepairControllerInterface
}

func NewRepairHandler(app app.App, router fiber.Router) *RepairHandler {
	log := logger.New("handlers").File("repairs_handler")
	return &RepairHandler{
		controller: app.Controllers.Repair,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RepairHandler) Register() {
	repairs := h.router.Group(
		"/repairs",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	repairs.Get("/", h.list)
	repairs.Post("/", h.submit)

	resolvers := repairs.Group("/", h.middleware.RequireRepairResolver())
	resolvers.Post("/:id/approve", h.approve)
	resolvers.Post("/:id/reject", h.reject)
	resolvers.Post("/:id/complete", h.complete)
	resolvers.Put("/:id/estimate", h.updateEstimate)
}

func (h *RepairHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	if statusParam := c.Query("status"); statusParam != "" {
		status := models.RepairStatus(statusParam)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status parameter",
			})
		}

		rows, err := h.controller.ListByStatus(c.UserContext(), sc, status)
		if err != nil {
			log.Er("failed to list repair requests by status", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load repair requests",
			})
		}
		return c.JSON(fiber.Map{"repairs": rows})
	}

	rows, err := h.controller.List(c.UserContext(), sc)
	if err != nil {
		log.Er("failed to list repair requests", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load repair requests",
		})
	}

	return c.JSON(fiber.Map{"repairs": rows})
}

func (h *RepairHandler) submit(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("submit")
	sc := middleware.GetScope(c)

	var req repairController.SubmitRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	repair, err := h.controller.Submit(c.UserContext(), sc, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to submit repair request")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"repair": repair})
}

func (h *RepairHandler) approve(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("approve")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid repair request id",
		})
	}

	var req repairController.ResolveRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	repair, err := h.controller.Approve(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to approve repair request")
	}

	return c.JSON(fiber.Map{"repair": repair})
}

func (h *RepairHandler) reject(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("reject")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid repair request id",
		})
	}

	var req repairController.ResolveRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	repair, err := h.controller.Reject(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to reject repair request")
	}

	return c.JSON(fiber.Map{"repair": repair})
}

func (h *RepairHandler) complete(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("complete")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid repair request id",
		})
	}

	var req repairController.CompleteRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	repair, err := h.controller.Complete(c.UserContext(), sc, id, &req)
	if err != nil {
		return h.handleError(c, log, err, "Failed to complete repair request")
	}

	return c.JSON(fiber.Map{"repair": repair})
}

func (h *RepairHandler) updateEstimate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateEstimate")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid repair request id",
		})
	}

	var req struct {
		CostEstimate decimal.Decimal `json:"costEstimate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	repair, err := h.controller.UpdateEstimate(c.UserContext(), sc, id, req.CostEstimate)
	if err != nil {
		return h.handleError(c, log, err, "Failed to update cost estimate")
	}

	return c.JSON(fiber.Map{"repair": repair})
}

func (h *RepairHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, repairController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repairController.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repairController.ErrMissingAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Repair request not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
