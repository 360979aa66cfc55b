package services

import (
	"context"
	"fmt"

	"fleetdeck/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/resend/resend-go/v2"
)

// MailerService sends transactional email through Resend. When no API key is
// configured the service degrades to logging the message, so development
// environments never send real mail.
type MailerService struct {
	client *resend.Client
	from   string
	log    logger.Logger
}

type EmailRequest struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
	Tags    map[string]string
}

func NewMailerService(config config.Config) *MailerService {
	log := logger.New("MailerService")

	var client *resend.Client
	if config.ResendAPIKey != "" {
		client = resend.NewClient(config.ResendAPIKey)
	} else {
		log.Warn("RESEND_API_KEY not set, email sending disabled")
	}

	return &MailerService{
		client: client,
		from:   config.MailFromAddress,
		log:    log,
	}
}

// Send delivers a single email and returns the provider message id.
func (s *MailerService) Send(ctx context.Context, req EmailRequest) (string, error) {
	log := s.log.Function("Send")

	if len(req.To) == 0 {
		return "", log.ErrMsg("email request has no recipients")
	}

	if s.client == nil {
		log.Info("email sending disabled, dropping message", "to", req.To, "subject", req.Subject)
		return "", nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	}
	if req.ReplyTo != "" {
		params.ReplyTo = req.ReplyTo
	}
	for name, value := range req.Tags {
		params.Tags = append(params.Tags, resend.Tag{Name: name, Value: value})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", log.Err("failed to send email", err, "to", req.To, "subject", req.Subject)
	}

	log.Info("email sent", "messageID", sent.Id, "to", req.To, "subject", req.Subject)
	return sent.Id, nil
}

// InvoiceEmailHTML renders the invoice notification body.
func InvoiceEmailHTML(yachtName, amount, paymentURL string) string {
	body := fmt.Sprintf(
		"<p>A new invoice for <strong>%s</strong> is ready.</p><p>Amount due: <strong>%s</strong></p>",
		yachtName, amount,
	)
	if paymentURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">Pay online</a></p>`, paymentURL)
	}
	return body
}
