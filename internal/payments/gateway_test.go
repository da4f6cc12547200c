package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/shared/config"

	"github.com/google/uuid"
)

func newTestClient(baseURL string) *GatewayClient {
	return NewGatewayClient(config.GatewayConfig{
		BaseURL: baseURL,
		APIKey:  "sk_test",
		Timeout: 200 * time.Millisecond,
	})
}

func TestCreatePaymentIntent(t *testing.T) {
	bookingID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != bookingID.String() {
			t.Errorf("Idempotency-Key = %q, want booking id", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("Authorization = %q", got)
		}

		var req createIntentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Amount != 12550 {
			t.Errorf("amount = %d cents, want 12550", req.Amount)
		}
		if req.Metadata.BookingID != bookingID.String() {
			t.Errorf("metadata booking id = %q", req.Metadata.BookingID)
		}

		json.NewEncoder(w).Encode(intentResponse{
			ID:           "pi_123",
			Status:       "requires_payment_method",
			ClientSecret: "pi_123_secret",
		})
	}))
	defer server.Close()

	intent, err := newTestClient(server.URL).CreatePaymentIntent(context.Background(), bookingID, 125.50)
	if err != nil {
		t.Fatalf("CreatePaymentIntent failed: %v", err)
	}
	if intent.Ref != "pi_123" || intent.ClientSecret != "pi_123_secret" {
		t.Errorf("intent = %+v", intent)
	}
}

func TestGetPaymentStatusMapping(t *testing.T) {
	cases := []struct {
		gatewayStatus string
		want          bookings.PaymentStatus
	}{
		{"succeeded", bookings.PaymentStatusSucceeded},
		{"processing", bookings.PaymentStatusPending},
		{"requires_payment_method", bookings.PaymentStatusPending},
		{"canceled", bookings.PaymentStatusFailed},
		{"failed", bookings.PaymentStatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.gatewayStatus, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/payment_intents/pi_123" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(intentResponse{ID: "pi_123", Status: tc.gatewayStatus})
			}))
			defer server.Close()

			status, err := newTestClient(server.URL).GetPaymentStatus(context.Background(), "pi_123")
			if err != nil {
				t.Fatalf("GetPaymentStatus failed: %v", err)
			}
			if status != tc.want {
				t.Errorf("status = %s, want %s", status, tc.want)
			}
		})
	}
}

func TestGatewayTimeoutIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPaymentStatus(context.Background(), "pi_123")
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want ErrGatewayUnavailable", err)
	}
}

func TestGatewayServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreatePaymentIntent(context.Background(), uuid.New(), 10)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want ErrGatewayUnavailable", err)
	}
}

func TestGatewayClientErrorIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreatePaymentIntent(context.Background(), uuid.New(), 10)
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if errors.Is(err, ErrGatewayUnavailable) {
		t.Error("4xx must not be reported as transient")
	}
}
