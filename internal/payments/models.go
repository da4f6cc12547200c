package payments

import "errors"

// Webhook event types sent by the payment gateway
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)

var (
	// ErrGatewayUnavailable is returned when the gateway cannot be reached
	// or times out. Callers treat it as transient.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrSignatureInvalid is returned when a webhook payload fails HMAC
	// verification
	ErrSignatureInvalid = errors.New("webhook signature invalid")
)

// WebhookEvent is the envelope the gateway posts to our webhook endpoint
type WebhookEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData carries the payment reference and our metadata echo
type WebhookEventData struct {
	PaymentRef string          `json:"payment_ref"`
	Metadata   WebhookMetadata `json:"metadata"`
}

// WebhookMetadata is set by us at intent creation and echoed back verbatim
type WebhookMetadata struct {
	BookingID string `json:"booking_id"`
}

// createIntentRequest is the body sent to the gateway's intent endpoint
type createIntentRequest struct {
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Metadata WebhookMetadata `json:"metadata"`
}

// intentResponse is the gateway's reply for both creation and status lookup
type intentResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}
