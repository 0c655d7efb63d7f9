package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/anchorbill/anchorbill/internal/config"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/logger"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultMollieBaseURL = "https://api.mollie.com/v2"

// MollieProvider charges customers through the Mollie payments API
// using recurring (mandate-backed) payments. Mollie webhooks carry only
// a payment id; the outcome is fetched back from the API.
type MollieProvider struct {
	client  *retryablehttp.Client
	apiKey  string
	baseURL string
	logger  *logger.Logger
}

func NewMollieProvider(cfg config.MollieConfig, log *logger.Logger) *MollieProvider {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultMollieBaseURL
	}

	return &MollieProvider{
		client:  client,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		logger:  log,
	}
}

func (m *MollieProvider) Type() types.PaymentProviderType {
	return types.PaymentProviderMollie
}

type molliePaymentRequest struct {
	Amount       mollieAmount      `json:"amount"`
	Description  string            `json:"description"`
	SequenceType string            `json:"sequenceType"`
	CustomerID   string            `json:"customerId"`
	MandateID    string            `json:"mandateId,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type mollieAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type molliePaymentResponse struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	PaidAt *string `json:"paidAt,omitempty"`
}

func (m *MollieProvider) ChargeBackgroundPayment(ctx context.Context, p *payment.Payment, providerCustomerID, paymentMethodID string) error {
	reqBody := molliePaymentRequest{
		Amount: mollieAmount{
			Currency: p.Currency,
			Value:    types.FormatAmount(p.Amount),
		},
		Description:  fmt.Sprintf("Invoice %s", p.InvoiceID),
		SequenceType: "recurring",
		CustomerID:   providerCustomerID,
		MandateID:    paymentMethodID,
		Metadata:     map[string]string{"payment_id": p.ID},
	}

	resp, err := m.do(ctx, http.MethodPost, "/payments", reqBody)
	if err != nil {
		return err
	}

	p.ProviderPaymentID = &resp.ID
	m.logger.Infow("submitted mollie background payment",
		"payment_id", p.ID, "mollie_payment_id", resp.ID)
	return nil
}

// ParseWebhook handles Mollie's form-encoded callback, which carries
// only `id=tr_...`. The actual outcome is fetched from the API.
func (m *MollieProvider) ParseWebhook(ctx context.Context, payload []byte) (*payment.WebhookResult, error) {
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Mollie webhook payload is not form encoded").
			Mark(ierr.ErrValidation)
	}
	id := values.Get("id")
	if id == "" {
		return nil, ierr.NewError("mollie webhook payload is missing the payment id").
			Mark(ierr.ErrValidation)
	}

	resp, err := m.do(ctx, http.MethodGet, "/payments/"+id, nil)
	if err != nil {
		return nil, err
	}

	result := &payment.WebhookResult{
		PaymentID: resp.ID,
		Status:    mollieStatus(resp.Status),
	}
	if resp.PaidAt != nil {
		if paidAt, err := time.Parse(time.RFC3339, *resp.PaidAt); err == nil {
			result.PaidAt = &paidAt
		}
	}
	return result, nil
}

func mollieStatus(status string) types.PaymentStatus {
	switch status {
	case "paid":
		return types.PaymentStatusPaid
	case "failed", "canceled", "expired":
		return types.PaymentStatusFailed
	default:
		// open, pending, authorized
		return types.PaymentStatusPending
	}
}

func (m *MollieProvider) do(ctx context.Context, method, path string, body any) (*molliePaymentResponse, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Mollie API is unreachable").
			Mark(ierr.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return nil, ierr.NewError("mollie API request failed").
			WithHintf("mollie returned status %d", resp.StatusCode).
			WithReportableDetails(map[string]any{
				"status": resp.StatusCode,
				"body":   string(raw),
			}).
			Mark(ierr.ErrProviderUnavailable)
	}

	var parsed molliePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Mollie returned an unexpected response body").
			Mark(ierr.ErrProviderUnavailable)
	}
	return &parsed, nil
}
