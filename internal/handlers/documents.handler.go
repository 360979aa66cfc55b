package handlers

import (
	"errors"

	"fleetdeck/internal/app"
	documentController "fleetdeck/internal/controllers/documents"
	"fleetdeck/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	Handler
	controller documentController.DocumentControllerInterface
}

func NewDocumentHandler(app app.App, router fiber.Router) *DocumentHandler {
	log := logger.New("handlers").File("documents_handler")
	return &DocumentHandler{
		controller: app.Controllers.Document,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DocumentHandler) Register() {
	documents := h.router.Group(
		"/yachts/:yachtId/documents",
		h.expiredUploadNotice,
		h.middleware.RequireAuth(),
		h.middleware.ResolveScope(),
	)

	documents.Get("/", h.list)
	documents.Post("/", h.upload)
	documents.Delete("/:id", h.delete)
}

// expiredUploadNotice rewrites the session-expired rejection for uploads.
// Losing a selected file to a silent 401 is the one place a generic message
// is not enough.
func (h *DocumentHandler) expiredUploadNotice(c *fiber.Ctx) error {
	err := c.Next()
	if c.Method() == fiber.MethodPost &&
		c.Response().StatusCode() == fiber.StatusUnauthorized {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Your session expired before the upload finished. Log in again and retry the upload.",
		})
	}
	return err
}

func (h *DocumentHandler) list(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("list")
	sc := middleware.GetScope(c)

	yachtID, err := uuid.Parse(c.Params("yachtId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	documents, err := h.controller.List(c.UserContext(), sc, yachtID)
	if err != nil {
		return h.handleError(c, log, err, "Failed to load documents")
	}

	return c.JSON(fiber.Map{"documents": documents})
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("upload")
	sc := middleware.GetScope(c)

	yachtID, err := uuid.Parse(c.Params("yachtId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid yacht id",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file upload",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Er("failed to open uploaded file", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unreadable file upload",
		})
	}
	defer func() {
		_ = file.Close()
	}()

	name := c.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}

	document, err := h.controller.Upload(c.UserContext(), sc, &documentController.UploadRequest{
		YachtID:     yachtID,
		Name:        name,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		return h.handleError(c, log, err, "Failed to store document")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"document": document})
}

func (h *DocumentHandler) delete(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("delete")
	sc := middleware.GetScope(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document id",
		})
	}

	if err := h.controller.Delete(c.UserContext(), sc, id); err != nil {
		return h.handleError(c, log, err, "Failed to delete document")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DocumentHandler) handleError(
	c *fiber.Ctx,
	log logger.Logger,
	err error,
	fallback string,
) error {
	switch {
	case errors.Is(err, documentController.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	default:
		log.Er(fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
