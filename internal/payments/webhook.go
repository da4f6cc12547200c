package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ticketly/internal/bookings"
	"ticketly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Reconciler is the slice of the booking service the webhook needs
type Reconciler interface {
	ConfirmPaid(ctx context.Context, bookingID uuid.UUID, paymentRef, source string) error
	MarkFailed(ctx context.Context, bookingID uuid.UUID, paymentRef string) error
	Refund(ctx context.Context, bookingID uuid.UUID, paymentRef string) error
	ResolveBookingByRef(ctx context.Context, paymentRef string) (uuid.UUID, error)
}

// WebhookController receives payment gateway callbacks
type WebhookController struct {
	reconciler    Reconciler
	webhookSecret string
	logger        *logger.Logger
}

func NewWebhookController(reconciler Reconciler, webhookSecret string, log *logger.Logger) *WebhookController {
	return &WebhookController{
		reconciler:    reconciler,
		webhookSecret: webhookSecret,
		logger:        log,
	}
}

// HandleWebhook handles POST /api/v1/payments/webhook
//
// Response codes drive the gateway's retry behavior: 2xx acknowledges,
// 4xx rejects permanently, 5xx asks for a retry. A payload that verifies
// but cannot be parsed is acknowledged and dropped, since retrying it
// can never succeed.
func (wc *WebhookController) HandleWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, 1<<20))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read payload"})
		return
	}

	signature := ctx.GetHeader(SignatureHeader)
	if !VerifySignature(wc.webhookSecret, payload, signature) {
		wc.logger.LogWebhookRejected(ctx.Request.Context(), "invalid signature", ctx.ClientIP())
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		wc.logger.LogWebhookRejected(ctx.Request.Context(), "malformed payload", ctx.ClientIP())
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	reqCtx := ctx.Request.Context()

	bookingID, err := uuid.Parse(event.Data.Metadata.BookingID)
	if err != nil {
		// Refund events in particular can arrive without the metadata echo;
		// fall back to the payment reference before giving up.
		if event.Data.PaymentRef == "" {
			wc.logger.LogWebhookRejected(reqCtx, "missing booking metadata", ctx.ClientIP())
			ctx.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		bookingID, err = wc.reconciler.ResolveBookingByRef(reqCtx, event.Data.PaymentRef)
		if err != nil {
			if errors.Is(err, bookings.ErrBookingNotFound) {
				wc.logger.LogWebhookRejected(reqCtx, "unknown payment ref", ctx.ClientIP())
				ctx.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			wc.logger.ErrorWithContext(reqCtx, "payment ref lookup failed", err, map[string]interface{}{
				"event_id": event.ID,
			})
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed, please retry"})
			return
		}
	}
	switch event.Type {
	case EventPaymentSucceeded:
		err = wc.reconciler.ConfirmPaid(reqCtx, bookingID, event.Data.PaymentRef, bookings.ConfirmSourceWebhook)
	case EventPaymentFailed:
		err = wc.reconciler.MarkFailed(reqCtx, bookingID, event.Data.PaymentRef)
	case EventChargeRefunded:
		err = wc.reconciler.Refund(reqCtx, bookingID, event.Data.PaymentRef)
	default:
		// Unknown event types are acknowledged so the gateway stops resending.
		wc.logger.Debug("ignoring webhook event", "type", event.Type, "id", event.ID)
	}

	if err != nil {
		wc.logger.ErrorWithContext(reqCtx, "webhook processing failed", err, map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
			"booking_id": bookingID.String(),
		})
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed, please retry"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
