package invoiceController

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*models.Invoice
}

func newFakeInvoiceRepo(invoices ...*models.Invoice) *fakeInvoiceRepo {
	repo := &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*models.Invoice)}
	for _, invoice := range invoices {
		repo.invoices[invoice.ID] = invoice
	}
	return repo
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (f *fakeInvoiceRepo) GetByRepairRequest(_ context.Context, repairRequestID uuid.UUID) (*models.Invoice, error) {
	for _, invoice := range f.invoices {
		if invoice.RepairRequestID == repairRequestID {
			copied := *invoice
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvoiceRepo) GetByPaymentLinkID(_ context.Context, paymentLinkID string) (*models.Invoice, error) {
	for _, invoice := range f.invoices {
		if invoice.PaymentLinkID != nil && *invoice.PaymentLinkID == paymentLinkID {
			copied := *invoice
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvoiceRepo) List(_ context.Context, _ scope.Scope) ([]models.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) ListPendingOlderThan(_ context.Context, _ time.Time) ([]models.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, invoice *models.Invoice) error {
	f.invoices[invoice.ID] = invoice
	return nil
}

type fakeNotificationRepo struct {
	created []models.Notification
}

func (f *fakeNotificationRepo) List(_ context.Context, _ scope.Scope) ([]models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _ scope.Scope, _ uuid.UUID) error {
	return nil
}

type fakePublisher struct {
	published []events.Channel
}

func (f *fakePublisher) Publish(channel events.Channel, _ events.Event) error {
	f.published = append(f.published, channel)
	return nil
}

func (f *fakePublisher) PublishTableChanged(channel events.Channel, _ *uuid.UUID) error {
	f.published = append(f.published, channel)
	return nil
}

type fakeActivityRepo struct {
	entries []models.ActivityLog
}

func (f *fakeActivityRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, _ scope.Scope, _ int) ([]models.ActivityLog, error) {
	return f.entries, nil
}

func newTestController(repo *fakeInvoiceRepo) (*InvoiceController, *fakeNotificationRepo) {
	notifications := &fakeNotificationRepo{}
	return &InvoiceController{
		invoiceRepo:      repo,
		notificationRepo: notifications,
		activityRepo:     &fakeActivityRepo{},
		eventBus:         &fakePublisher{},
		log:              logger.New("invoiceController"),
	}, notifications
}

func pendingInvoice(yachtID uuid.UUID) *models.Invoice {
	invoice := &models.Invoice{
		RepairRequestID: uuid.New(),
		YachtID:         &yachtID,
		Amount:          decimal.NewFromInt(1200),
		Status:          models.InvoiceStatusPending,
	}
	invoice.ID = uuid.New()
	return invoice
}

func TestGet_OwnerLimitedToOwnYacht(t *testing.T) {
	yachtID := uuid.New()
	otherYachtID := uuid.New()
	invoice := pendingInvoice(yachtID)
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	owner := scope.Resolve(scope.Session{
		UserID:        uuid.New(),
		ActualRole:    models.RoleOwner,
		ActualYachtID: &otherYachtID,
	})

	_, err := controller.Get(context.Background(), owner, invoice.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHandleEmailEvent_StampsTimestampsOnce(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	repo := newFakeInvoiceRepo(invoice)
	controller, _ := newTestController(repo)

	event := EmailWebhookEvent{
		Type:      "email.delivered",
		MessageID: "msg-1",
		InvoiceID: invoice.ID,
	}

	require.NoError(t, controller.HandleEmailEvent(context.Background(), event))

	stored := repo.invoices[invoice.ID]
	require.NotNil(t, stored.DeliveredAt)
	firstDelivery := *stored.DeliveredAt

	// A repeat delivery only lands in the raw event log
	require.NoError(t, controller.HandleEmailEvent(context.Background(), event))
	stored = repo.invoices[invoice.ID]
	assert.Equal(t, firstDelivery, *stored.DeliveredAt)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(stored.EmailEvents, &raw))
	assert.Len(t, raw, 2)
}

func TestHandleEmailEvent_OpenAndClick(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	repo := newFakeInvoiceRepo(invoice)
	controller, _ := newTestController(repo)

	for _, eventType := range []string{"email.opened", "email.clicked"} {
		require.NoError(t, controller.HandleEmailEvent(context.Background(), EmailWebhookEvent{
			Type:      eventType,
			InvoiceID: invoice.ID,
		}))
	}

	stored := repo.invoices[invoice.ID]
	assert.NotNil(t, stored.OpenedAt)
	assert.NotNil(t, stored.ClickedAt)
	assert.Nil(t, stored.DeliveredAt)
}

func TestHandleEmailEvent_UnknownInvoice(t *testing.T) {
	controller, _ := newTestController(newFakeInvoiceRepo())

	err := controller.HandleEmailEvent(context.Background(), EmailWebhookEvent{
		Type:      "email.delivered",
		InvoiceID: uuid.New(),
	})
	assert.Error(t, err)
}

func TestHandlePaymentEvent_MarksPaid(t *testing.T) {
	linkID := "plink_123"
	invoice := pendingInvoice(uuid.New())
	invoice.PaymentLinkID = &linkID
	repo := newFakeInvoiceRepo(invoice)
	controller, notifications := newTestController(repo)

	require.NoError(t, controller.HandlePaymentEvent(context.Background(), linkID))

	stored := repo.invoices[invoice.ID]
	assert.Equal(t, models.InvoiceStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	require.Len(t, notifications.created, 1)
	assert.Equal(t, "Invoice paid", notifications.created[0].Title)
}

func TestHandlePaymentEvent_Idempotent(t *testing.T) {
	linkID := "plink_456"
	invoice := pendingInvoice(uuid.New())
	invoice.PaymentLinkID = &linkID
	repo := newFakeInvoiceRepo(invoice)
	controller, notifications := newTestController(repo)

	require.NoError(t, controller.HandlePaymentEvent(context.Background(), linkID))
	paidAt := *repo.invoices[invoice.ID].PaidAt

	require.NoError(t, controller.HandlePaymentEvent(context.Background(), linkID))

	assert.Equal(t, paidAt, *repo.invoices[invoice.ID].PaidAt)
	assert.Len(t, notifications.created, 1)
}

func TestCreatePaymentLink_RequiresFleetManager(t *testing.T) {
	yachtID := uuid.New()
	invoice := pendingInvoice(yachtID)
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	owner := scope.Resolve(scope.Session{
		UserID:        uuid.New(),
		ActualRole:    models.RoleOwner,
		ActualYachtID: &yachtID,
	})

	_, err := controller.CreatePaymentLink(context.Background(), owner, invoice.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreatePaymentLink_RejectsPaidInvoice(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	invoice.Status = models.InvoiceStatusPaid
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	master := scope.Resolve(scope.Session{
		UserID:     uuid.New(),
		ActualRole: models.RoleMaster,
	})

	_, err := controller.CreatePaymentLink(context.Background(), master, invoice.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestSendEmail_RequiresPaymentLink(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	master := scope.Resolve(scope.Session{
		UserID:     uuid.New(),
		ActualRole: models.RoleMaster,
	})

	_, err := controller.SendEmail(context.Background(), master, invoice.ID)
	assert.ErrorIs(t, err, ErrNoPaymentLink)
}

func TestMarkPaid_ManualSettlement(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	repo := newFakeInvoiceRepo(invoice)
	controller, _ := newTestController(repo)

	master := scope.Resolve(scope.Session{
		UserID:     uuid.New(),
		ActualRole: models.RoleMaster,
	})

	updated, err := controller.MarkPaid(context.Background(), master, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)

	_, err = controller.MarkPaid(context.Background(), master, invoice.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestMarkFailed(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	master := scope.Resolve(scope.Session{
		UserID:     uuid.New(),
		ActualRole: models.RoleMaster,
	})

	updated, err := controller.MarkFailed(context.Background(), master, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusFailed, updated.Status)
	assert.Nil(t, updated.PaidAt)
}

func TestMarkPaid_RequiresFleetManager(t *testing.T) {
	yachtID := uuid.New()
	invoice := pendingInvoice(yachtID)
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	owner := scope.Resolve(scope.Session{
		UserID:        uuid.New(),
		ActualRole:    models.RoleOwner,
		ActualYachtID: &yachtID,
	})

	_, err := controller.MarkPaid(context.Background(), owner, invoice.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeletePaymentLink_RequiresExistingLink(t *testing.T) {
	invoice := pendingInvoice(uuid.New())
	controller, _ := newTestController(newFakeInvoiceRepo(invoice))

	master := scope.Resolve(scope.Session{
		UserID:     uuid.New(),
		ActualRole: models.RoleMaster,
	})

	_, err := controller.DeletePaymentLink(context.Background(), master, invoice.ID)
	assert.ErrorIs(t, err, ErrNoPaymentLink)
}
