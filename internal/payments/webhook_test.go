package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticketly/internal/bookings"
	"ticketly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type reconcilerCall struct {
	op         string
	bookingID  uuid.UUID
	paymentRef string
	source     string
}

type fakeReconciler struct {
	calls []reconcilerCall
	refs  map[string]uuid.UUID
	err   error
}

func (f *fakeReconciler) ConfirmPaid(ctx context.Context, bookingID uuid.UUID, paymentRef, source string) error {
	f.calls = append(f.calls, reconcilerCall{"confirm", bookingID, paymentRef, source})
	return f.err
}

func (f *fakeReconciler) MarkFailed(ctx context.Context, bookingID uuid.UUID, paymentRef string) error {
	f.calls = append(f.calls, reconcilerCall{"fail", bookingID, paymentRef, ""})
	return f.err
}

func (f *fakeReconciler) Refund(ctx context.Context, bookingID uuid.UUID, paymentRef string) error {
	f.calls = append(f.calls, reconcilerCall{"refund", bookingID, paymentRef, ""})
	return f.err
}

func (f *fakeReconciler) ResolveBookingByRef(ctx context.Context, paymentRef string) (uuid.UUID, error) {
	id, ok := f.refs[paymentRef]
	if !ok {
		return uuid.Nil, bookings.ErrBookingNotFound
	}
	return id, nil
}

const testWebhookSecret = "whsec_test"

func newWebhookRouter(reconciler Reconciler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewWebhookController(reconciler, testWebhookSecret, logger.New())
	SetupPaymentRoutes(router.Group("/api/v1"), controller)
	return router
}

func postWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signedEvent(eventType string, bookingID uuid.UUID, paymentRef string) ([]byte, string) {
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","type":%q,"data":{"payment_ref":%q,"metadata":{"booking_id":%q}}}`,
		eventType, paymentRef, bookingID.String(),
	))
	return payload, ComputeSignature(testWebhookSecret, payload)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	reconciler := &fakeReconciler{}
	router := newWebhookRouter(reconciler)
	payload, _ := signedEvent(EventPaymentSucceeded, uuid.New(), "pi_1")

	cases := map[string]string{
		"missing signature": "",
		"wrong signature":   "deadbeef",
		"wrong secret":      ComputeSignature("whsec_other", payload),
	}
	for name, sig := range cases {
		t.Run(name, func(t *testing.T) {
			w := postWebhook(router, payload, sig)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
	if len(reconciler.calls) != 0 {
		t.Errorf("reconciler was called %d times for rejected payloads", len(reconciler.calls))
	}
}

func TestWebhookDispatchesByEventType(t *testing.T) {
	bookingID := uuid.New()
	cases := []struct {
		eventType string
		wantOp    string
	}{
		{EventPaymentSucceeded, "confirm"},
		{EventPaymentFailed, "fail"},
		{EventChargeRefunded, "refund"},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			reconciler := &fakeReconciler{}
			router := newWebhookRouter(reconciler)
			payload, sig := signedEvent(tc.eventType, bookingID, "pi_1")

			w := postWebhook(router, payload, sig)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if len(reconciler.calls) != 1 {
				t.Fatalf("reconciler called %d times, want 1", len(reconciler.calls))
			}
			call := reconciler.calls[0]
			if call.op != tc.wantOp || call.bookingID != bookingID || call.paymentRef != "pi_1" {
				t.Errorf("call = %+v", call)
			}
			if tc.wantOp == "confirm" && call.source != "webhook" {
				t.Errorf("confirm source = %q, want webhook", call.source)
			}
		})
	}
}

func TestWebhookAcknowledgesUnparseablePayload(t *testing.T) {
	reconciler := &fakeReconciler{}
	router := newWebhookRouter(reconciler)

	// Correctly signed, but not the shape we expect. Retrying cannot help,
	// so the gateway must get a 200.
	payload := []byte(`{"whatever": true}`)
	w := postWebhook(router, payload, ComputeSignature(testWebhookSecret, payload))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if len(reconciler.calls) != 0 {
		t.Error("reconciler called for unparseable payload")
	}
}

func TestWebhookAcknowledgesUnknownEventType(t *testing.T) {
	reconciler := &fakeReconciler{}
	router := newWebhookRouter(reconciler)
	payload, sig := signedEvent("customer.updated", uuid.New(), "pi_1")

	w := postWebhook(router, payload, sig)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if len(reconciler.calls) != 0 {
		t.Error("reconciler called for unknown event type")
	}
}

func TestWebhookResolvesBookingByPaymentRef(t *testing.T) {
	bookingID := uuid.New()
	reconciler := &fakeReconciler{refs: map[string]uuid.UUID{"pi_1": bookingID}}
	router := newWebhookRouter(reconciler)

	// Refund deliveries can arrive without the booking metadata echo.
	payload := []byte(fmt.Sprintf(`{"id":"evt_1","type":%q,"data":{"payment_ref":"pi_1"}}`, EventChargeRefunded))
	w := postWebhook(router, payload, ComputeSignature(testWebhookSecret, payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(reconciler.calls) != 1 {
		t.Fatalf("reconciler called %d times, want 1", len(reconciler.calls))
	}
	call := reconciler.calls[0]
	if call.op != "refund" || call.bookingID != bookingID || call.paymentRef != "pi_1" {
		t.Errorf("call = %+v", call)
	}
}

func TestWebhookAcknowledgesUnknownPaymentRef(t *testing.T) {
	reconciler := &fakeReconciler{}
	router := newWebhookRouter(reconciler)

	payload := []byte(fmt.Sprintf(`{"id":"evt_1","type":%q,"data":{"payment_ref":"pi_unknown"}}`, EventPaymentSucceeded))
	w := postWebhook(router, payload, ComputeSignature(testWebhookSecret, payload))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (retrying an unknown ref cannot help)", w.Code)
	}
	if len(reconciler.calls) != 0 {
		t.Error("reconciler called for unknown payment ref")
	}
}

func TestWebhookAsksForRetryOnTransientError(t *testing.T) {
	reconciler := &fakeReconciler{err: errors.New("db connection lost")}
	router := newWebhookRouter(reconciler)
	payload, sig := signedEvent(EventPaymentSucceeded, uuid.New(), "pi_1")

	w := postWebhook(router, payload, sig)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 so the gateway retries", w.Code)
	}
}
