package handlers

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"fleetdeck/config"
	invoiceController "fleetdeck/internal/controllers/invoices"
	"fleetdeck/internal/database"
	"fleetdeck/internal/handlers/middleware"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubInvoiceController struct {
	emailErr   error
	paymentErr error
}

func (s *stubInvoiceController) List(_ context.Context, _ scope.Scope) ([]models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) Get(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubInvoiceController) CreatePaymentLink(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) RegeneratePaymentLink(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) DeletePaymentLink(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) MarkPaid(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) MarkFailed(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) SendEmail(_ context.Context, _ scope.Scope, _ uuid.UUID) (*models.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceController) HandleEmailEvent(_ context.Context, _ invoiceController.EmailWebhookEvent) error {
	return s.emailErr
}

func (s *stubInvoiceController) HandlePaymentEvent(_ context.Context, _ string) error {
	return s.paymentErr
}

func newWebhookTestApp(stub *stubInvoiceController) *fiber.App {
	app := fiber.New()
	handler := &InvoiceHandler{
		controller: stub,
		Handler: Handler{
			log:        logger.New("handlers").File("invoices_handler"),
			router:     app.Group("/api"),
			middleware: middleware.New(database.DB{}, nil, config.Config{}, repositories.Repository{}, nil),
		},
	}
	handler.Register()
	return app
}

func TestPaymentWebhook_UnknownLinkAcknowledged(t *testing.T) {
	app := newWebhookTestApp(&stubInvoiceController{paymentErr: gorm.ErrRecordNotFound})

	body := `{"type":"payment_link.paid","data":{"payment_link_id":"plink_missing"}}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEmailWebhook_UnknownInvoiceAcknowledged(t *testing.T) {
	app := newWebhookTestApp(&stubInvoiceController{emailErr: gorm.ErrRecordNotFound})

	body := fmt.Sprintf(
		`{"type":"email.delivered","data":{"email_id":"em_1","tags":[{"name":"invoice_id","value":"%s"}]}}`,
		uuid.New())
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaymentWebhook_OtherEventTypesAcknowledged(t *testing.T) {
	app := newWebhookTestApp(&stubInvoiceController{})

	body := `{"type":"payment_link.viewed","data":{"payment_link_id":"plink_1"}}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
