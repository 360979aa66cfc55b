package repositories

import (
	"context"
	"time"

	appContext "fleetdeck/internal/context"
	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByRepairRequest(ctx context.Context, repairRequestID uuid.UUID) (*Invoice, error)
	GetByPaymentLinkID(ctx context.Context, paymentLinkID string) (*Invoice, error)
	List(ctx context.Context, sc scope.Scope) ([]Invoice, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Invoice, error)
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
}

type invoiceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInvoiceRepository(db database.DB) InvoiceRepository {
	return &invoiceRepository{
		db:  db,
		log: logger.New("invoiceRepository"),
	}
}

func (r *invoiceRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := appContext.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	log := r.log.Function("GetByID")

	var invoice Invoice
	if err := r.getDB(ctx).
		Preload("RepairRequest").
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get invoice by id", err, "id", id)
	}

	return &invoice, nil
}

func (r *invoiceRepository) GetByRepairRequest(
	ctx context.Context,
	repairRequestID uuid.UUID,
) (*Invoice, error) {
	log := r.log.Function("GetByRepairRequest")

	var invoice Invoice
	if err := r.getDB(ctx).
		First(&invoice, "repair_request_id = ?", repairRequestID).Error; err != nil {
		return nil, log.Err("failed to get invoice by repair request", err,
			"repairRequestID", repairRequestID)
	}

	return &invoice, nil
}

func (r *invoiceRepository) GetByPaymentLinkID(
	ctx context.Context,
	paymentLinkID string,
) (*Invoice, error) {
	log := r.log.Function("GetByPaymentLinkID")

	var invoice Invoice
	if err := r.getDB(ctx).
		First(&invoice, "payment_link_id = ?", paymentLinkID).Error; err != nil {
		return nil, log.Err("failed to get invoice by payment link", err,
			"paymentLinkID", paymentLinkID)
	}

	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, sc scope.Scope) ([]Invoice, error) {
	log := r.log.Function("List")

	var invoices []Invoice
	tx := sc.ApplyYacht(r.getDB(ctx), "yacht_id")
	if err := tx.Preload("RepairRequest").
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, log.Err("failed to list invoices", err)
	}

	return invoices, nil
}

// ListPendingOlderThan feeds the reminder job: unpaid invoices created
// before the cutoff.
func (r *invoiceRepository) ListPendingOlderThan(
	ctx context.Context,
	cutoff time.Time,
) ([]Invoice, error) {
	log := r.log.Function("ListPendingOlderThan")

	var invoices []Invoice
	if err := r.getDB(ctx).
		Where("status = ? AND created_at < ?", InvoiceStatusPending, cutoff).
		Find(&invoices).Error; err != nil {
		return nil, log.Err("failed to list pending invoices", err, "cutoff", cutoff)
	}

	return invoices, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *Invoice) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(invoice).Error; err != nil {
		return log.Err("failed to create invoice", err,
			"repairRequestID", invoice.RepairRequestID)
	}

	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *Invoice) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(invoice).Error; err != nil {
		return log.Err("failed to update invoice", err, "invoiceID", invoice.ID)
	}

	return nil
}
