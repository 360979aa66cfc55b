package jobs

import (
	"context"
	"fmt"
	"time"

	"fleetdeck/internal/repositories"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// How long an invoice may sit unpaid before a reminder email goes out.
const invoiceReminderAge = 7 * 24 * time.Hour

// InvoiceReminderJob re-sends the payment link for invoices that were
// emailed but are still unpaid after a week.
type InvoiceReminderJob struct {
	invoiceRepo repositories.InvoiceRepository
	repairRepo  repositories.RepairRequestRepository
	userRepo    repositories.UserRepository
	yachtRepo   repositories.YachtRepository
	mailer      *services.MailerService
	log         logger.Logger
	schedule    services.Schedule
}

func NewInvoiceReminderJob(
	repos repositories.Repository,
	mailer *services.MailerService,
	schedule services.Schedule,
) *InvoiceReminderJob {
	return &InvoiceReminderJob{
		invoiceRepo: repos.Invoice,
		repairRepo:  repos.RepairRequest,
		userRepo:    repos.User,
		yachtRepo:   repos.Yacht,
		mailer:      mailer,
		log:         logger.New("invoiceReminderJob"),
		schedule:    schedule,
	}
}

func (j *InvoiceReminderJob) Name() string {
	return "InvoiceReminder"
}

func (j *InvoiceReminderJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *InvoiceReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := time.Now().Add(-invoiceReminderAge)
	invoices, err := j.invoiceRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return log.Err("failed to load stale pending invoices", err)
	}

	sent := 0
	for _, invoice := range invoices {
		// Only remind about invoices that were actually emailed with a link
		if invoice.SentAt == nil || invoice.PaymentLinkURL == nil {
			continue
		}

		request, err := j.repairRepo.GetByID(ctx, invoice.RepairRequestID)
		if err != nil {
			log.Er("failed to load repair request for reminder", err, "invoiceID", invoice.ID)
			continue
		}

		recipient, err := j.userRepo.GetByID(ctx, request.SubmittedByID)
		if err != nil {
			log.Er("failed to load reminder recipient", err, "invoiceID", invoice.ID)
			continue
		}

		yachtName := ""
		if invoice.YachtID != nil {
			if yacht, err := j.yachtRepo.GetByID(ctx, *invoice.YachtID); err == nil {
				yachtName = yacht.Name
			}
		}

		html := services.InvoiceEmailHTML(yachtName, invoice.Amount.StringFixed(2), *invoice.PaymentLinkURL)
		if _, err := j.mailer.Send(ctx, services.EmailRequest{
			To:      []string{recipient.Email},
			Subject: fmt.Sprintf("Payment reminder: %s", request.Title),
			HTML:    html,
			Tags:    map[string]string{"invoice_id": invoice.ID.String()},
		}); err != nil {
			log.Er("failed to send invoice reminder", err, "invoiceID", invoice.ID)
			continue
		}
		sent++
	}

	log.Info("Invoice reminder sweep complete", "stale", len(invoices), "sent", sent)
	return nil
}
