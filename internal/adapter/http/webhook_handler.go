package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rogerzombo-blip/DonFood/internal/payments"
)

const maxWebhookBody = 1 << 20 // 1MB

type WebhookHandler struct {
	dispatcher *payments.Dispatcher
}

func NewWebhookHandler(d *payments.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: d}
}

// Handle reads the raw body untouched: the signature covers the exact
// bytes the gateway sent. Once verification passes the delivery is
// always acknowledged, recognized event type or not.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: unreadable body")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.dispatcher.Dispatch(c.Request.Context(), payload, sig); err != nil {
		var sigErr *payments.SignatureError
		if errors.As(err, &sigErr) {
			c.String(http.StatusBadRequest, "Webhook Error: %s", sigErr.Message)
			return
		}
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
