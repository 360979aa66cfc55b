package invoiceController

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var (
	ErrForbidden     = errors.New("invoice outside allowed scope")
	ErrNoPaymentLink = errors.New("invoice has no payment link")
	ErrAlreadyPaid   = errors.New("invoice is already paid")
)

type InvoiceControllerInterface interface {
	List(ctx context.Context, sc scope.Scope) ([]models.Invoice, error)
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	CreatePaymentLink(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	RegeneratePaymentLink(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	DeletePaymentLink(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	MarkPaid(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	MarkFailed(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	SendEmail(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Invoice, error)
	HandleEmailEvent(ctx context.Context, event EmailWebhookEvent) error
	HandlePaymentEvent(ctx context.Context, paymentLinkID string) error
}

type InvoiceController struct {
	invoiceRepo      repositories.InvoiceRepository
	repairRepo       repositories.RepairRequestRepository
	userRepo         repositories.UserRepository
	yachtRepo        repositories.YachtRepository
	notificationRepo repositories.NotificationRepository
	activityRepo     repositories.ActivityLogRepository
	payments         *services.PaymentService
	mailer           *services.MailerService
	eventBus         eventPublisher
	log              logger.Logger
}

type eventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
	PublishTableChanged(channel events.Channel, userID *uuid.UUID) error
}

func New(
	repos repositories.Repository,
	payments *services.PaymentService,
	mailer *services.MailerService,
	eventBus *events.EventBus,
) InvoiceControllerInterface {
	return &InvoiceController{
		invoiceRepo:      repos.Invoice,
		repairRepo:       repos.RepairRequest,
		userRepo:         repos.User,
		yachtRepo:        repos.Yacht,
		notificationRepo: repos.Notification,
		activityRepo:     repos.ActivityLog,
		payments:         payments,
		mailer:           mailer,
		eventBus:         eventBus,
		log:              logger.New("invoiceController"),
	}
}

// EmailWebhookEvent is the provider webhook payload for email engagement.
type EmailWebhookEvent struct {
	Type      string         `json:"type"`
	MessageID string         `json:"messageId"`
	InvoiceID uuid.UUID      `json:"invoiceId"`
	Raw       map[string]any `json:"raw,omitempty"`
}

func (c *InvoiceController) List(ctx context.Context, sc scope.Scope) ([]models.Invoice, error) {
	return c.invoiceRepo.List(ctx, sc)
}

func (c *InvoiceController) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	return c.getScoped(ctx, sc, id)
}

// CreatePaymentLink asks the provider for a hosted link and stores it on the
// invoice. The provider call happens outside any transaction; a created link
// is kept even if a later step fails.
func (c *InvoiceController) CreatePaymentLink(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	log := c.log.Function("CreatePaymentLink")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	invoice, err := c.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return nil, ErrAlreadyPaid
	}

	link, err := c.payments.CreateLink(
		ctx,
		invoice.Amount,
		c.invoiceDescription(ctx, invoice),
		invoice.ID.String(),
	)
	if err != nil {
		return nil, log.Err("failed to create payment link", err, "invoiceID", id)
	}

	invoice.PaymentLinkID = &link.ID
	invoice.PaymentLinkURL = &link.URL

	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, log.Err("failed to store payment link", err, "invoiceID", id, "linkID", link.ID)
	}

	c.recordActivity(ctx, sc, invoice, "payment_link_created", link.ID)
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return invoice, nil
}

// RegeneratePaymentLink replaces an existing link. The old link is deleted
// best-effort first; a dangling provider link is preferable to an invoice
// pointing at a dead one.
func (c *InvoiceController) RegeneratePaymentLink(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	log := c.log.Function("RegeneratePaymentLink")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	invoice, err := c.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return nil, ErrAlreadyPaid
	}

	if invoice.PaymentLinkID != nil {
		if err := c.payments.DeleteLink(ctx, *invoice.PaymentLinkID); err != nil {
			log.Er("failed to delete old payment link", err,
				"invoiceID", id, "linkID", *invoice.PaymentLinkID)
		}
	}

	link, err := c.payments.CreateLink(
		ctx,
		invoice.Amount,
		c.invoiceDescription(ctx, invoice),
		invoice.ID.String(),
	)
	if err != nil {
		return nil, log.Err("failed to create replacement payment link", err, "invoiceID", id)
	}

	invoice.PaymentLinkID = &link.ID
	invoice.PaymentLinkURL = &link.URL

	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, log.Err("failed to store replacement link", err, "invoiceID", id)
	}

	c.recordActivity(ctx, sc, invoice, "payment_link_regenerated", link.ID)
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return invoice, nil
}

// DeletePaymentLink removes the provider link and clears it from the
// invoice. Provider deletion is best-effort; the invoice record is the
// authority on whether a link is live.
func (c *InvoiceController) DeletePaymentLink(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	log := c.log.Function("DeletePaymentLink")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	invoice, err := c.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.PaymentLinkID == nil {
		return nil, ErrNoPaymentLink
	}

	if err := c.payments.DeleteLink(ctx, *invoice.PaymentLinkID); err != nil {
		log.Er("failed to delete payment link at provider", err,
			"invoiceID", id, "linkID", *invoice.PaymentLinkID)
	}

	linkID := *invoice.PaymentLinkID
	invoice.PaymentLinkID = nil
	invoice.PaymentLinkURL = nil

	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, log.Err("failed to clear payment link", err, "invoiceID", id)
	}

	c.recordActivity(ctx, sc, invoice, "payment_link_deleted", linkID)
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return invoice, nil
}

// MarkPaid records a settlement that happened outside the payment link,
// a wire transfer or a cheque at the fleet desk.
func (c *InvoiceController) MarkPaid(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	return c.setStatus(ctx, sc, id, models.InvoiceStatusPaid, "invoice_marked_paid")
}

func (c *InvoiceController) MarkFailed(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	return c.setStatus(ctx, sc, id, models.InvoiceStatusFailed, "invoice_marked_failed")
}

func (c *InvoiceController) setStatus(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	status models.InvoiceStatus,
	action string,
) (*models.Invoice, error) {
	log := c.log.Function("setStatus")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	invoice, err := c.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return nil, ErrAlreadyPaid
	}

	invoice.Status = status
	if status == models.InvoiceStatusPaid {
		now := time.Now()
		invoice.PaidAt = &now
	}

	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, log.Err("failed to update invoice status", err, "invoiceID", id, "status", status)
	}

	c.recordActivity(ctx, sc, invoice, action, "")
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return invoice, nil
}

// SendEmail delivers the invoice email with its payment link to the repair
// submitter and stamps SentAt.
func (c *InvoiceController) SendEmail(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	log := c.log.Function("SendEmail")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	invoice, err := c.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.PaymentLinkURL == nil {
		return nil, ErrNoPaymentLink
	}

	request, err := c.repairRepo.GetByID(ctx, invoice.RepairRequestID)
	if err != nil {
		return nil, log.Err("failed to load repair request for invoice", err, "invoiceID", id)
	}

	recipient, err := c.userRepo.GetByID(ctx, request.SubmittedByID)
	if err != nil {
		return nil, log.Err("failed to load invoice recipient", err, "invoiceID", id)
	}

	yachtName := c.yachtName(ctx, invoice.YachtID)
	html := services.InvoiceEmailHTML(yachtName, invoice.Amount.StringFixed(2), *invoice.PaymentLinkURL)

	if _, err := c.mailer.Send(ctx, services.EmailRequest{
		To:      []string{recipient.Email},
		Subject: fmt.Sprintf("Invoice for %s", request.Title),
		HTML:    html,
		Tags:    map[string]string{"invoice_id": invoice.ID.String()},
	}); err != nil {
		return nil, log.Err("failed to send invoice email", err, "invoiceID", id)
	}

	now := time.Now()
	invoice.SentAt = &now
	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		// The email is already out; record the failure but keep going
		log.Er("failed to stamp invoice sent time", err, "invoiceID", id)
	}

	c.recordActivity(ctx, sc, invoice, "invoice_emailed", recipient.Email)
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return invoice, nil
}

// HandleEmailEvent records provider engagement webhooks. Each timestamp is
// written once; repeated opens only land in the raw event log.
func (c *InvoiceController) HandleEmailEvent(ctx context.Context, event EmailWebhookEvent) error {
	log := c.log.Function("HandleEmailEvent")

	invoice, err := c.invoiceRepo.GetByID(ctx, event.InvoiceID)
	if err != nil {
		return log.Err("email event for unknown invoice", err, "invoiceID", event.InvoiceID)
	}

	now := time.Now()
	switch event.Type {
	case "email.delivered":
		if invoice.DeliveredAt == nil {
			invoice.DeliveredAt = &now
		}
	case "email.opened":
		if invoice.OpenedAt == nil {
			invoice.OpenedAt = &now
		}
	case "email.clicked":
		if invoice.ClickedAt == nil {
			invoice.ClickedAt = &now
		}
	default:
		log.Warn("unhandled email event type", "type", event.Type, "invoiceID", event.InvoiceID)
	}

	invoice.EmailEvents = appendEvent(invoice.EmailEvents, event)

	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		return log.Err("failed to record email event", err, "invoiceID", event.InvoiceID)
	}

	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)
	return nil
}

// HandlePaymentEvent marks the invoice paid when the provider reports its
// link settled.
func (c *InvoiceController) HandlePaymentEvent(ctx context.Context, paymentLinkID string) error {
	log := c.log.Function("HandlePaymentEvent")

	invoice, err := c.invoiceRepo.GetByPaymentLinkID(ctx, paymentLinkID)
	if err != nil {
		return log.Err("payment event for unknown link", err, "linkID", paymentLinkID)
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return nil
	}

	now := time.Now()
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidAt = &now

	if err := c.invoiceRepo.Update(ctx, invoice); err != nil {
		return log.Err("failed to mark invoice paid", err, "invoiceID", invoice.ID)
	}

	c.notify(ctx, &models.Notification{
		YachtID: invoice.YachtID,
		Kind:    models.NotificationKindInvoice,
		Title:   "Invoice paid",
		Body:    fmt.Sprintf("Invoice %s settled for %s", invoice.ID, invoice.Amount.StringFixed(2)),
	})
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return nil
}

func (c *InvoiceController) getScoped(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Invoice, error) {
	invoice, err := c.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sc.FleetWide() {
		return invoice, nil
	}
	if invoice.YachtID == nil || sc.EffectiveYachtID == nil ||
		*invoice.YachtID != *sc.EffectiveYachtID {
		return nil, ErrForbidden
	}

	return invoice, nil
}

func (c *InvoiceController) invoiceDescription(
	ctx context.Context,
	invoice *models.Invoice,
) string {
	if request, err := c.repairRepo.GetByID(ctx, invoice.RepairRequestID); err == nil {
		return request.Title
	}
	return "Repair invoice"
}

func (c *InvoiceController) yachtName(ctx context.Context, yachtID *uuid.UUID) string {
	if yachtID == nil {
		return ""
	}
	if yacht, err := c.yachtRepo.GetByID(ctx, *yachtID); err == nil {
		return yacht.Name
	}
	return ""
}

// appendEvent keeps the raw webhook payloads as a JSON array for auditing.
func appendEvent(existing []byte, event EmailWebhookEvent) []byte {
	var list []EmailWebhookEvent
	if len(existing) > 0 {
		_ = json.Unmarshal(existing, &list)
	}
	list = append(list, event)
	out, err := json.Marshal(list)
	if err != nil {
		return existing
	}
	return out
}

func (c *InvoiceController) notify(ctx context.Context, notification *models.Notification) {
	if err := c.notificationRepo.Create(ctx, notification); err != nil {
		c.log.Function("notify").Er("failed to create notification", err, "title", notification.Title)
		return
	}
	_ = c.eventBus.Publish(events.NotificationsChannel, events.Event{
		Type:   events.NOTIFICATION,
		UserID: notification.RecipientID,
		Data:   map[string]any{"title": notification.Title, "kind": string(notification.Kind)},
	})
}

func (c *InvoiceController) recordActivity(
	ctx context.Context,
	sc scope.Scope,
	invoice *models.Invoice,
	action, detail string,
) {
	entry := &models.ActivityLog{
		ActorID:    &sc.UserID,
		YachtID:    invoice.YachtID,
		EntityType: "invoice",
		EntityID:   &invoice.ID,
		Action:     action,
		Detail:     detail,
	}
	if err := c.activityRepo.Create(ctx, entry); err != nil {
		c.log.Function("recordActivity").
			Er("failed to record invoice activity", err, "invoiceID", invoice.ID, "action", action)
	}
}
