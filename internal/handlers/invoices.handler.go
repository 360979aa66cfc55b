package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	invoiceController "fleetdeck/internal/controllers/invoices"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	Handler
	controller invoiceController.InvoiceControllerInterface
}

func NewInvoiceHandler(app app.App, router fiber.Router) *InvoiceHandler {
	log := logger.New("handlers").File("invoices_handler")
	return &InvoiceHandler{
		controller: app.Controllers.Invoice,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InvoiceHandler) Register() {
	invoices := h.router.Group(
		"/invoices",
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	invoices.Get("/", h.list)
	invoices.Get("/:id", h.get)

	managers := invoices.Group("/", h.middleware.RequireFleetManager())
	managers.Post("/:id/payment-link", h.createPaymentLink)
	managers.Post("/:id/payment-link/regenerate", h.regeneratePaymentLink)
	managers.Delete("/:id/payment-link", h.deletePaymentLink)
	managers.Post("/:id/send", h.sendEmail)
	managers.Post("/:id/mark-paid", h.markPaid)
	managers.Post("/:id/mark-failed", h.markFailed)

	// Provider callbacks carry no session; they authenticate by payload shape
	// and are registered outside the auth middleware.
	webhooks := h.router.Group("/webhooks")
	webhooks.Post("/email", h.emailWebhook)
	webhooks.Post("/payments", h.paymentWebhook)
}

func (h *InvoiceHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	invoices, err := h.controller.List(c.UserContext(), sc)
	if err != nil {
		log.Er("failed to list invoices", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load invoices",
		})
	}

	return c.JSON(fiber.Map{"invoices": invoices})
}

func (h *InvoiceHandler) get(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("get")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.Get(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to load invoice")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

func (h *InvoiceHandler) createPaymentLink(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createPaymentLink")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.CreatePaymentLink(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to create payment link")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

func (h *InvoiceHandler) regeneratePaymentLink(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("regeneratePaymentLink")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.RegeneratePaymentLink(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to regenerate payment link")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

func (h *InvoiceHandler) deletePaymentLink(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deletePaymentLink")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.DeletePaymentLink(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to delete payment link")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

func (h *InvoiceHandler) markPaid(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("markPaid")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.MarkPaid(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to mark invoice paid")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

func (h *InvoiceHandler) markFailed(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("markFailed")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.MarkFailed(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to mark invoice failed")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

func (h *InvoiceHandler) sendEmail(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("sendEmail")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice id",
		})
	}

	invoice, err := h.controller.SendEmail(c.UserContext(), sc, id)
	if err != nil {
		return h.handleError(c, log, err, "Failed to send invoice email")
	}

	return c.JSON(fiber.Map{"invoice": invoice})
}

type emailWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		EmailID string `json:"email_id"`
		Tags    []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"tags"`
	} `json:"data"`
}

// emailWebhook accepts engagement callbacks from the email provider. The
// invoice id rides in a tag stamped on the outbound message.
func (h *InvoiceHandler) emailWebhook(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("emailWebhook")

	var payload emailWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	var invoiceID uuid.UUID
	for _, tag := range payload.Data.Tags {
		if tag.Name == "invoice_id" {
			parsed, err := uuid.Parse(tag.Value)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid invoice tag",
				})
			}
			invoiceID = parsed
		}
	}
	if invoiceID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing invoice tag",
		})
	}

	var raw map[string]any
	_ = c.BodyParser(&raw)

	event := invoiceController.EmailWebhookEvent{
		Type:      payload.Type,
		MessageID: payload.Data.EmailID,
		InvoiceID: invoiceID,
		Raw:       raw,
	}

	if err := h.controller.HandleEmailEvent(c.UserContext(), event); err != nil {
		// Unknown references get a 200 so the provider stops retrying
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info("email event for unknown invoice", "invoiceID", invoiceID)
			return c.JSON(fiber.Map{"received": true, "ignored": true})
		}
		log.Er("failed to process email webhook", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process event",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}

type paymentWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		PaymentLinkID string `json:"payment_link_id"`
	} `json:"data"`
}

func (h *InvoiceHandler) paymentWebhook(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("paymentWebhook")

	var payload paymentWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.Data.PaymentLinkID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing payment link id",
		})
	}

	if payload.Type != "payment_link.paid" {
		log.Info("ignoring payment event", "type", payload.Type)
		return c.JSON(fiber.Map{"received": true})
	}

	if err := h.controller.HandlePaymentEvent(c.UserContext(), payload.Data.PaymentLinkID); err != nil {
		// Unknown references get a 200 so the provider stops retrying
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info("payment event for unknown link", "linkID", payload.Data.PaymentLinkID)
			return c.JSON(fiber.Map{"received": true, "ignored": true})
		}
		log.Er("failed to process payment webhook", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process event",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}

func (h *InvoiceHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, invoiceController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, invoiceController.ErrNoPaymentLink),
		errors.Is(err, invoiceController.ErrAlreadyPaid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
