// Package gateway is the typed client façade the checkout flow uses to
// talk to the payment backend. It never sees card data; the most
// sensitive thing passing through here is the intent's client secret.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
	"github.com/rogerzombo-blip/DonFood/internal/logging"
)

const (
	callTimeout   = 15 * time.Second
	healthTimeout = 3 * time.Second
)

// Error carries the backend's own message for a failed call.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("gateway: %s (http %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: callTimeout},
	}
}

// IntentHandle is what the browser needs to drive the secure element.
type IntentHandle struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type ConfirmStatus struct {
	Success         bool                `json:"success"`
	PaymentIntentID string              `json:"paymentIntentId"`
	Status          domain.IntentStatus `json:"status"`
	Amount          int64               `json:"amount"`
	Currency        string              `json:"currency"`
	ReceiptEmail    string              `json:"receiptEmail"`
	Metadata        map[string]string   `json:"metadata"`
	Message         string              `json:"message"`
}

type IntentDetails struct {
	ID       string              `json:"id"`
	Amount   int64               `json:"amount"`
	Currency string              `json:"currency"`
	Status   domain.IntentStatus `json:"status"`
	Created  int64               `json:"created"`
	Metadata map[string]string   `json:"metadata"`
}

type RefundResult struct {
	Success  bool   `json:"success"`
	RefundID string `json:"refundId"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

// CheckHealth converts every possible failure into false. It is the one
// call whose job is to produce a boolean, not an error: the orchestrator
// uses it once per session to pick live vs demo mode.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		logging.FromCtx(ctx).Warn("health check failed", "err", err)
		return false
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK && body.Status == "ok"
}

func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]any) (IntentHandle, error) {
	var out IntentHandle
	err := c.post(ctx, "/create-payment-intent", map[string]any{
		"amount":   amount,
		"currency": currency,
		"metadata": metadata,
	}, &out)
	return out, err
}

func (c *Client) ConfirmPaymentStatus(ctx context.Context, paymentIntentID string) (ConfirmStatus, error) {
	var out ConfirmStatus
	err := c.post(ctx, "/confirm-payment", map[string]any{
		"paymentIntentId": paymentIntentID,
	}, &out)
	return out, err
}

func (c *Client) GetPaymentIntent(ctx context.Context, paymentIntentID string) (IntentDetails, error) {
	var out IntentDetails
	err := c.get(ctx, "/payment-intent/"+paymentIntentID, &out)
	return out, err
}

// RequestRefund asks for a refund; amount 0 means a full refund.
func (c *Client) RequestRefund(ctx context.Context, paymentIntentID string, amount int64, reason string) (RefundResult, error) {
	body := map[string]any{"paymentIntentId": paymentIntentID}
	if amount > 0 {
		body["amount"] = amount
	}
	if reason != "" {
		body["reason"] = reason
	}
	var out RefundResult
	err := c.post(ctx, "/refund", body, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failure surfaces the same way a gateway error does:
		// the caller gets a message, never a silent default.
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return &Error{StatusCode: resp.StatusCode, Message: e.Error}
		}
		return &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}
