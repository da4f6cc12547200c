package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures payment gateway callback routes.
// The webhook is unauthenticated by design; the HMAC signature is the
// authentication.
func SetupPaymentRoutes(rg *gin.RouterGroup, webhook *WebhookController) {
	payments := rg.Group("/payments")
	{
		payments.POST("/webhook", webhook.HandleWebhook) // POST /api/v1/payments/webhook
	}
}
