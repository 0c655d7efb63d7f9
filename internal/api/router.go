// Package api exposes the minimal inbound HTTP edge the billing core
// needs: the payment-provider webhook callback and a health endpoint.
package api

import (
	"io"
	"net/http"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/logger"
	"github.com/anchorbill/anchorbill/internal/service"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Payment service.PaymentService
	Logger  *logger.Logger
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/payment", handlePaymentWebhook(handlers))
	}

	return router
}

// handlePaymentWebhook feeds the raw body to the configured provider.
// Providers expect a 200 on successful receipt; processing errors for
// unknown payments are returned so the provider retries later.
func handlePaymentWebhook(handlers Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if err := handlers.Payment.HandleWebhook(c.Request.Context(), payload); err != nil {
			handlers.Logger.Errorw("webhook handling failed", "error", err)
			c.JSON(ierr.HTTPStatusFromErr(err), gin.H{"error": "webhook not applied"})
			return
		}

		c.Status(http.StatusOK)
	}
}
