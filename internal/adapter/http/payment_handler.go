package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
	"github.com/rogerzombo-blip/DonFood/internal/logging"
	"github.com/rogerzombo-blip/DonFood/internal/payments"
)

const gatewayCallTimeout = 10 * time.Second

type PaymentHandler struct {
	svc               *payments.Service
	publishableKey    string
	gatewayConfigured bool
}

func NewPaymentHandler(svc *payments.Service, publishableKey string, gatewayConfigured bool) *PaymentHandler {
	return &PaymentHandler{
		svc:               svc,
		publishableKey:    publishableKey,
		gatewayConfigured: gatewayConfigured,
	}
}

func (h *PaymentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"gatewayConfigured": h.gatewayConfigured,
	})
}

// Config hands out the publishable key only. The secret key never
// leaves the server.
func (h *PaymentHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishableKey": h.publishableKey})
}

type createIntentReq struct {
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Metadata map[string]any `json:"metadata"`
}

type createIntentResp struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req createIntentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), gatewayCallTimeout)
	defer cancel()

	out, err := h.svc.CreateIntent(ctx, payments.CreateIntentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Metadata: stringifyMetadata(req.Metadata),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount. Minimum is $0.50 USD"})
			return
		}
		logging.From(c).Error("create payment intent", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, createIntentResp{
		ClientSecret:    out.ClientSecret,
		PaymentIntentID: out.PaymentIntentID,
		Amount:          out.Amount,
		Currency:        out.Currency,
	})
}

type confirmPaymentReq struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentIntentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment Intent ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), gatewayCallTimeout)
	defer cancel()

	out, err := h.svc.ConfirmStatus(ctx, req.PaymentIntentID)
	if err != nil {
		logging.From(c).Error("confirm payment", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !out.Success {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"status":  out.Status,
			"message": out.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"paymentIntentId": out.PaymentIntentID,
		"status":          out.Status,
		"amount":          out.Amount,
		"currency":        out.Currency,
		"receiptEmail":    out.ReceiptEmail,
		"metadata":        out.Metadata,
	})
}

func (h *PaymentHandler) GetPaymentIntent(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), gatewayCallTimeout)
	defer cancel()

	pi, err := h.svc.Retrieve(ctx, id)
	if err != nil {
		logging.From(c).Error("retrieve payment intent", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       pi.ID,
		"amount":   pi.Amount,
		"currency": pi.Currency,
		"status":   pi.Status,
		"created":  pi.Created.Unix(),
		"metadata": pi.Metadata,
	})
}

type refundReq struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
	Reason          string  `json:"reason"`
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req refundReq
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentIntentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment Intent ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), gatewayCallTimeout)
	defer cancel()

	r, err := h.svc.Refund(ctx, payments.RefundInput{
		PaymentIntentID: req.PaymentIntentID,
		Amount:          req.Amount,
		Reason:          req.Reason,
	})
	if err != nil {
		logging.From(c).Error("refund", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"refundId": r.ID,
		"amount":   r.Amount,
		"status":   r.Status,
	})
}

// stringifyMetadata flattens the caller's open metadata bag into the
// string map the gateway stores. Numbers arrive as JSON floats; keep
// whole values whole ("2", not "2e+00").
func stringifyMetadata(md map[string]any) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			if t == float64(int64(t)) {
				out[k] = fmt.Sprintf("%d", int64(t))
			} else {
				out[k] = fmt.Sprintf("%v", t)
			}
		default:
			out[k] = fmt.Sprintf("%v", t)
		}
	}
	return out
}
