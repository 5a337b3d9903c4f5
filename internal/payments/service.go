// Package payments is the backend side of the checkout: payment-intent
// lifecycle against the card gateway, refunds, and webhook event intake.
// The client secret returned by CreateIntent is handed straight back to
// the caller and never persisted or logged here.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
)

const (
	integrationTag  = "donfood-checkout"
	defaultCurrency = "usd"
	// Gateway-recognized refund reason used when the caller gives none.
	defaultRefundReason = "requested_by_customer"
)

type Service struct {
	gw  CardGateway
	log *slog.Logger
	now func() time.Time
}

func NewService(gw CardGateway, log *slog.Logger) *Service {
	return &Service{gw: gw, log: log, now: time.Now}
}

type CreateIntentInput struct {
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string
}

type CreateIntentOutput struct {
	ClientSecret    string
	PaymentIntentID string
	Amount          int64
	Currency        string
}

// CreateIntent validates and normalizes the request, then asks the
// gateway for an intent with automatic payment-method selection.
func (s *Service) CreateIntent(ctx context.Context, in CreateIntentInput) (CreateIntentOutput, error) {
	if in.Amount < domain.MinimumChargeMinorUnits {
		return CreateIntentOutput{}, fmt.Errorf("%w: minimum charge is %d minor units",
			domain.ErrInvalidAmount, domain.MinimumChargeMinorUnits)
	}

	cur := strings.ToLower(in.Currency)
	if cur == "" {
		cur = defaultCurrency
	}

	md := make(map[string]string, len(in.Metadata)+2)
	for k, v := range in.Metadata {
		md[k] = v
	}
	md["integration"] = integrationTag
	md["created_at"] = s.now().UTC().Format(time.RFC3339)

	pi, err := s.gw.CreateIntent(ctx, in.Amount, cur, md)
	if err != nil {
		s.log.Error("create payment intent failed", "amount", in.Amount, "currency", cur, "err", err)
		return CreateIntentOutput{}, err
	}

	intentsCreated.Inc()
	s.log.Info("payment intent created",
		"payment_intent_id", pi.ID, "amount", pi.Amount, "currency", pi.Currency)

	return CreateIntentOutput{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
	}, nil
}

func (s *Service) Retrieve(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	return s.gw.RetrieveIntent(ctx, id)
}

type ConfirmOutput struct {
	Success         bool
	PaymentIntentID string
	Status          domain.IntentStatus
	Amount          int64
	Currency        string
	ReceiptEmail    string
	Metadata        map[string]string
	Message         string
}

// ConfirmStatus re-reads the intent and reports success only for an
// exact `succeeded`. It is a reconciliation read: the actual confirm
// happened at the gateway, driven by the secure element.
func (s *Service) ConfirmStatus(ctx context.Context, id string) (ConfirmOutput, error) {
	pi, err := s.gw.RetrieveIntent(ctx, id)
	if err != nil {
		return ConfirmOutput{}, err
	}

	if pi.Status != domain.IntentSucceeded {
		return ConfirmOutput{
			Success: false,
			Status:  pi.Status,
			Message: fmt.Sprintf("Payment status: %s", pi.Status),
		}, nil
	}

	s.log.Info("payment confirmed", "payment_intent_id", pi.ID)
	return ConfirmOutput{
		Success:         true,
		PaymentIntentID: pi.ID,
		Status:          pi.Status,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
		ReceiptEmail:    pi.ReceiptEmail,
		Metadata:        pi.Metadata,
	}, nil
}

type RefundInput struct {
	PaymentIntentID string
	Amount          float64 // minor units; 0 means full refund
	Reason          string
}

// Refund refunds the intent, fully when no amount is given. Fractional
// amounts round to the nearest minor unit.
func (s *Service) Refund(ctx context.Context, in RefundInput) (*domain.Refund, error) {
	reason := in.Reason
	if reason == "" {
		reason = defaultRefundReason
	}

	var amount int64
	if in.Amount > 0 {
		amount = int64(math.Round(in.Amount))
	}

	r, err := s.gw.CreateRefund(ctx, in.PaymentIntentID, amount, reason)
	if err != nil {
		s.log.Error("refund failed", "payment_intent_id", in.PaymentIntentID, "err", err)
		return nil, err
	}

	refundsCreated.Inc()
	s.log.Info("refund created",
		"refund_id", r.ID, "payment_intent_id", in.PaymentIntentID, "amount", r.Amount)
	return r, nil
}
