package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"ticketly/internal/bookings"
	"ticketly/internal/shared/config"

	"github.com/google/uuid"
)

// GatewayClient talks to the external payment provider over HTTPS. It
// implements the booking service's PaymentGateway port.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGatewayClient(cfg config.GatewayConfig) *GatewayClient {
	return &GatewayClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreatePaymentIntent registers a payment attempt with the gateway. The
// booking id doubles as the idempotency key, so retrying after a timeout
// cannot create a second charge.
func (g *GatewayClient) CreatePaymentIntent(ctx context.Context, bookingID uuid.UUID, amount float64) (*bookings.PaymentIntent, error) {
	body, err := json.Marshal(createIntentRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "usd",
		Metadata: WebhookMetadata{BookingID: bookingID.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Idempotency-Key", bookingID.String())

	var intent intentResponse
	if err := g.do(req, &intent); err != nil {
		return nil, err
	}
	return &bookings.PaymentIntent{Ref: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// GetPaymentStatus asks the gateway for the authoritative state of an intent
func (g *GatewayClient) GetPaymentStatus(ctx context.Context, paymentRef string) (bookings.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/payment_intents/"+paymentRef, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	var intent intentResponse
	if err := g.do(req, &intent); err != nil {
		return "", err
	}

	switch intent.Status {
	case "succeeded":
		return bookings.PaymentStatusSucceeded, nil
	case "processing", "requires_payment_method", "requires_confirmation", "requires_action":
		return bookings.PaymentStatusPending, nil
	case "canceled", "failed":
		return bookings.PaymentStatusFailed, nil
	default:
		return "", fmt.Errorf("gateway returned unknown intent status %q", intent.Status)
	}
}

func (g *GatewayClient) do(req *http.Request, out interface{}) error {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures alike; the caller retries later.
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("gateway rejected request with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

var _ bookings.PaymentGateway = (*GatewayClient)(nil)
