package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
	"github.com/rogerzombo-blip/DonFood/internal/logging"
)

// SecureElementAdapter drives a real confirmation: it hands the client
// secret to the secure element and, when the element reports success,
// reconciles against the backend's read-only confirm endpoint.
type SecureElementAdapter struct {
	element SecureElement
	backend PaymentBackend
}

func NewSecureElementAdapter(element SecureElement, backend PaymentBackend) *SecureElementAdapter {
	return &SecureElementAdapter{element: element, backend: backend}
}

func (a *SecureElementAdapter) Confirm(ctx context.Context, clientSecret, paymentIntentID string) (ConfirmResult, error) {
	status, err := a.element.ConfirmPayment(ctx, clientSecret)
	if err != nil {
		return ConfirmResult{}, err
	}
	if status != domain.IntentSucceeded {
		return ConfirmResult{}, fmt.Errorf("payment not completed: %s", status)
	}

	// The reconciliation read is best-effort: the element already holds
	// the authoritative result, so a transport failure here only loses
	// the cross-check, not the payment.
	if a.backend != nil && paymentIntentID != "" {
		cs, err := a.backend.ConfirmPaymentStatus(ctx, paymentIntentID)
		if err != nil {
			logging.FromCtx(ctx).Warn("confirm reconciliation unavailable",
				"payment_intent_id", paymentIntentID, "err", err)
		} else if !cs.Success {
			return ConfirmResult{}, fmt.Errorf("payment status: %s", cs.Status)
		}
	}

	return ConfirmResult{PaymentIntentID: paymentIntentID, Status: domain.IntentSucceeded}, nil
}

// DemoConfirmer stands in for the gateway when the backend is offline:
// it waits a fixed delay, then fabricates a successful result so the
// whole flow stays exercisable without connectivity.
type DemoConfirmer struct {
	Delay time.Duration
}

const demoConfirmDelay = 2 * time.Second

func NewDemoConfirmer() *DemoConfirmer {
	return &DemoConfirmer{Delay: demoConfirmDelay}
}

func (d *DemoConfirmer) Confirm(ctx context.Context, _, paymentIntentID string) (ConfirmResult, error) {
	select {
	case <-ctx.Done():
		return ConfirmResult{}, ctx.Err()
	case <-time.After(d.Delay):
	}

	if paymentIntentID == "" {
		paymentIntentID = "pi_demo_" + uuid.NewString()
	}
	return ConfirmResult{PaymentIntentID: paymentIntentID, Status: domain.IntentSucceeded}, nil
}
