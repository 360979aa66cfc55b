package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleetdeck/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

// PaymentService creates and deletes hosted payment links through the
// provider's HTTP API. Requests carry the configured bearer token and a JSON
// body; non-2xx responses are parsed for an `error` field and surfaced.
type PaymentService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        logger.Logger
}

type PaymentLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type paymentLinkRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type paymentErrorResponse struct {
	Error string `json:"error"`
}

func NewPaymentService(config config.Config) *PaymentService {
	log := logger.New("PaymentService")

	if config.PaymentAPIURL == "" {
		log.Warn("PAYMENT_API_URL not set, payment links disabled")
	}

	return &PaymentService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    config.PaymentAPIURL,
		apiKey:     config.PaymentAPIKey,
		log:        log,
	}
}

func (s *PaymentService) IsConfigured() bool {
	return s.baseURL != ""
}

// CreateLink requests a hosted payment link for the given amount.
func (s *PaymentService) CreateLink(
	ctx context.Context,
	amount decimal.Decimal,
	description, reference string,
) (*PaymentLink, error) {
	log := s.log.Function("CreateLink")

	if !s.IsConfigured() {
		return nil, log.ErrMsg("payment provider not configured")
	}

	payload, err := json.Marshal(paymentLinkRequest{
		Amount:      amount.StringFixed(2),
		Currency:    "USD",
		Description: description,
		Reference:   reference,
	})
	if err != nil {
		return nil, log.Err("failed to marshal payment link request", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/payment-links",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, log.Err("failed to build payment link request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("payment link request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, log.Err("failed to read payment link response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, log.Err("payment provider rejected link creation",
			providerError(body, resp.StatusCode), "status", resp.StatusCode)
	}

	var link PaymentLink
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, log.Err("failed to parse payment link response", err)
	}

	log.Info("payment link created", "linkID", link.ID, "reference", reference)
	return &link, nil
}

// DeleteLink removes a hosted payment link.
func (s *PaymentService) DeleteLink(ctx context.Context, linkID string) error {
	log := s.log.Function("DeleteLink")

	if !s.IsConfigured() {
		return log.ErrMsg("payment provider not configured")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		s.baseURL+"/payment-links/"+linkID,
		nil,
	)
	if err != nil {
		return log.Err("failed to build payment link delete request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return log.Err("payment link delete request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return log.Err("payment provider rejected link deletion",
			providerError(body, resp.StatusCode), "linkID", linkID, "status", resp.StatusCode)
	}

	log.Info("payment link deleted", "linkID", linkID)
	return nil
}

// providerError extracts the provider's error field when present.
func providerError(body []byte, status int) error {
	var parsed paymentErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return fmt.Errorf("payment provider error: %s", parsed.Error)
	}
	return fmt.Errorf("payment provider returned status %d", status)
}
